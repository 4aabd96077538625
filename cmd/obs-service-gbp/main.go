// obs-service-gbp is the git-buildpackage source service for OBS: it
// materializes the requested revision of a remote repository from the local
// mirror cache and exports its packaging files with git-buildpackage.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/intel/obs-service-git-buildpackage/cache"
	"github.com/intel/obs-service-git-buildpackage/exec"
	"github.com/intel/obs-service-git-buildpackage/service"
)

// Exit codes consumed by the OBS service runner.
const (
	exitOK         = 0
	exitCacheError = 1
	exitRPMError   = 2
	exitDebError   = 3
)

type cliArgs struct {
	url        string
	outdir     string
	revision   string
	rpm        string
	deb        string
	verbose    string
	specVcsTag string
	spec       string
	configs    []string
}

func parseArgs(argv []string) (*cliArgs, error) {
	args := &cliArgs{}

	flags := pflag.NewFlagSet("obs-service-gbp", pflag.ContinueOnError)
	flags.StringVar(&args.url, "url", "", "remote repository URL")
	flags.StringVar(&args.outdir, "outdir", "", "output directory")
	flags.StringVar(&args.revision, "revision", "HEAD", "revision to export")
	flags.StringVar(&args.rpm, "rpm", "auto", "export RPM packaging files (auto|yes|no)")
	flags.StringVar(&args.deb, "deb", "auto", "export Debian packaging files (auto|yes|no)")
	flags.StringVarP(&args.verbose, "verbose", "v", "no", "verbose output (yes|no)")
	flags.StringVar(&args.specVcsTag, "spec-vcs-tag", "", "set/update the VCS tag in the spec file")
	flags.StringVar(&args.spec, "spec", "", "spec file name, for packages with multiple spec files")
	flags.StringArrayVar(&args.configs, "config", nil, "config file to use, can be given multiple times")

	if err := flags.Parse(argv); err != nil {
		return nil, err
	}
	if args.url == "" {
		return nil, fmt.Errorf("--url is required")
	}
	return args, nil
}

func run(argv []string) int {
	args, err := parseArgs(argv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "obs-service-gbp: %v\n", err)
		return exitCacheError
	}

	level := zerolog.InfoLevel
	if args.verbose == "yes" {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	log.Info().Msg("starting git-buildpackage source service")

	rpmMode, err := service.ParseExportMode(args.rpm)
	if err != nil {
		log.Error().Err(err).Msg("invalid --rpm value")
		return exitCacheError
	}
	debMode, err := service.ParseExportMode(args.deb)
	if err != nil {
		log.Error().Err(err).Msg("invalid --deb value")
		return exitCacheError
	}

	configFiles := args.configs
	if len(configFiles) == 0 {
		configFiles = service.DefaultConfigFiles
	}
	cfg, err := service.ReadConfig(configFiles)
	if err != nil {
		log.Error().Err(err).Msg("failed to read configuration")
		return exitCacheError
	}

	ctx := context.Background()

	// Create or refresh the cached repository.
	cached, err := cache.Open(ctx, cfg.RepoCacheDir, args.url, cache.WithLogger(log))
	if err != nil {
		log.Error().Err(err).Msg("repocache failed")
		return exitCacheError
	}
	defer cached.Close()

	revision, err := cached.UpdateWorkingCopy(ctx, args.revision, true)
	if err != nil {
		log.Error().Err(err).Msg("repocache failed")
		return exitCacheError
	}

	cred, err := service.LookupCredential(cfg.GBPUser, cfg.GBPGroup)
	if err != nil {
		log.Error().Err(err).Msg("invalid exporter identity")
		return exitCacheError
	}
	execOpts := []exec.Option{exec.WithInheritEnv()}
	if cred != nil {
		execOpts = append(execOpts, exec.WithCredential(cred))
	}
	exporter := service.NewExporter(
		service.WithExecutor(exec.New(execOpts...)),
		service.WithLogger(log))

	exportOpts := service.ExportOptions{
		Outdir:     args.outdir,
		Revision:   revision,
		Verbose:    args.verbose == "yes",
		SpecVcsTag: args.specVcsTag,
		Spec:       args.spec,
	}

	if rpmMode != service.ModeNo {
		if err := exporter.ExportRPM(ctx, cached.Path(), exportOpts); err != nil {
			log.Error().Err(err).Msg("unable to export RPM packaging files")
			return exitRPMError
		}
	}
	if debMode == service.ModeYes ||
		(debMode == service.ModeAuto && service.HasDebianDir(cached.Path())) {
		if err := exporter.ExportDeb(ctx, cached.Path(), exportOpts); err != nil {
			log.Error().Err(err).Msg("unable to export Debian source package")
			return exitDebError
		}
	}

	return exitOK
}

func main() {
	os.Exit(run(os.Args[1:]))
}
