package service

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/intel/obs-service-git-buildpackage/errors"
	"github.com/intel/obs-service-git-buildpackage/exec"
)

// debBuilderScript builds the Debian source package from outside the source
// directory; dpkg-source puts its output in a version-dependent place when
// run with '-b .'.
const debBuilderScript = "cd ..; dpkg-source -b $GBP_BUILD_DIR"

// ExportMode controls whether a packaging format is exported.
type ExportMode string

const (
	// ModeAuto exports when the working copy carries the packaging files.
	ModeAuto ExportMode = "auto"
	// ModeYes always exports.
	ModeYes ExportMode = "yes"
	// ModeNo never exports.
	ModeNo ExportMode = "no"
)

// ParseExportMode validates an export mode string.
func ParseExportMode(s string) (ExportMode, error) {
	switch ExportMode(s) {
	case ModeAuto, ModeYes, ModeNo:
		return ExportMode(s), nil
	}
	return "", errors.Newf(errors.CodeInvalidConfig,
		"invalid export mode %q (expected auto, yes or no)", s)
}

// ExportOptions selects what the exporter produces and where.
type ExportOptions struct {
	// Outdir receives the exported packaging files; defaults to the current
	// directory.
	Outdir string

	// Revision is the treeish to export.
	Revision string

	// Verbose enables verbose exporter output.
	Verbose bool

	// SpecVcsTag sets/updates the VCS tag in the exported spec file.
	SpecVcsTag string

	// Spec names the preferred spec file, for packages carrying several.
	Spec string
}

// Exporter invokes git-buildpackage to export packaging files from a
// checked-out working copy.
type Exporter struct {
	executor exec.Executor
	log      zerolog.Logger
}

// ExporterOption configures NewExporter.
type ExporterOption func(*Exporter)

// WithExecutor sets the executor running the exporter commands. Pass an
// executor built with a credential to run the exporter under another
// identity.
func WithExecutor(executor exec.Executor) ExporterOption {
	return func(e *Exporter) {
		e.executor = executor
	}
}

// WithLogger sets the logger for export operations.
func WithLogger(log zerolog.Logger) ExporterOption {
	return func(e *Exporter) {
		e.log = log
	}
}

// NewExporter returns an exporter running git-buildpackage from PATH with
// the inherited environment.
func NewExporter(opts ...ExporterOption) *Exporter {
	e := &Exporter{
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.executor == nil {
		e.executor = exec.New(exec.WithInheritEnv())
	}
	return e
}

// commonArgs builds the git-buildpackage arguments shared by the rpm and deb
// exports.
func commonArgs(opts ExportOptions) []string {
	outdir := opts.Outdir
	if outdir == "" {
		outdir = "."
	}
	if abs, err := filepath.Abs(outdir); err == nil {
		outdir = abs
	}

	args := []string{
		"--git-ignore-branch",
		"--git-no-hooks",
		"--git-export-dir=" + outdir,
	}
	if opts.Revision != "" {
		args = append(args, "--git-export="+opts.Revision)
	}
	if opts.Verbose {
		args = append(args, "--git-verbose")
	}
	return args
}

// rpmArgs builds the full git-buildpackage-rpm argument list.
func rpmArgs(opts ExportOptions, specPath string) []string {
	args := append(commonArgs(opts),
		"--git-builder=osc",
		"--git-export-only")
	if opts.SpecVcsTag != "" {
		args = append(args, "--git-spec-vcs-tag="+opts.SpecVcsTag)
	}
	return append(args, "--git-spec-file="+specPath)
}

// debArgs builds the full git-buildpackage argument list.
func debArgs(opts ExportOptions) []string {
	return append(commonArgs(opts),
		"--git-purge",
		"--git-builder="+debBuilderScript)
}

// FindSpec locates the spec file under dir, searching recursively. With
// preferred set, only a spec file of that name matches; otherwise exactly one
// spec file must exist.
func FindSpec(dir, preferred string) (string, error) {
	var specs []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".spec") {
			specs = append(specs, path)
		}
		return nil
	})
	if err != nil {
		return "", errors.Wrapf(err, errors.CodeExecutionFailed,
			"failed to search %s for spec files", dir)
	}

	if preferred != "" {
		want := preferred
		if !strings.HasSuffix(want, ".spec") {
			want += ".spec"
		}
		for _, spec := range specs {
			if filepath.Base(spec) == want {
				return spec, nil
			}
		}
		return "", errors.Newf(errors.CodeNotFound,
			"spec file %q not found in %s", preferred, dir)
	}

	switch len(specs) {
	case 0:
		return "", errors.Newf(errors.CodeNotFound,
			"no spec file found in %s", dir)
	case 1:
		return specs[0], nil
	default:
		return "", errors.Newf(errors.CodeInvalidConfig,
			"multiple spec files found in %s, use --spec to select one", dir)
	}
}

// HasDebianDir reports whether the working copy carries Debian packaging.
func HasDebianDir(workdir string) bool {
	info, err := os.Stat(filepath.Join(workdir, "debian"))
	return err == nil && info.IsDir()
}

// ExportRPM exports RPM packaging files from the working copy at workdir.
// The spec file is discovered under workdir before the exporter runs.
func (e *Exporter) ExportRPM(ctx context.Context, workdir string, opts ExportOptions) error {
	spec, err := FindSpec(workdir, opts.Spec)
	if err != nil {
		return err
	}

	args := append([]string{"git-buildpackage-rpm"}, rpmArgs(opts, spec)...)
	e.log.Info().Msg("exporting RPM packaging files")
	e.log.Debug().Strs("args", args).Msg("running git-buildpackage-rpm")

	if _, err := e.run(ctx, workdir, args); err != nil {
		return errors.Wrapf(err, errors.CodeExportFailed,
			"git-buildpackage-rpm failed, unable to export RPM packaging files (%s)",
			diagnostic(err))
	}
	return nil
}

// ExportDeb exports a Debian source package from the working copy at workdir.
func (e *Exporter) ExportDeb(ctx context.Context, workdir string, opts ExportOptions) error {
	args := append([]string{"git-buildpackage"}, debArgs(opts)...)
	e.log.Info().Msg("exporting Debian source package")
	e.log.Debug().Strs("args", args).Msg("running git-buildpackage")

	if _, err := e.run(ctx, workdir, args); err != nil {
		return errors.Wrapf(err, errors.CodeExportFailed,
			"git-buildpackage failed, unable to export Debian source package (%s)",
			diagnostic(err))
	}
	return nil
}

func (e *Exporter) run(ctx context.Context, dir string, args []string) (*exec.Result, error) {
	return e.executor.Clone().WithContext(ctx).WithDir(dir).Run(args...)
}

// diagnostic extracts the exporter's stderr for error messages.
func diagnostic(err error) string {
	var execErr *exec.ExecError
	if errors.As(err, &execErr) {
		return strings.TrimSpace(execErr.Stderr)
	}
	return ""
}
