// repocache-adm administers the git-buildpackage repository cache.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var cacheDir string
	var debug bool

	root := &cobra.Command{
		Use:           "repocache-adm",
		Short:         "Administer the git-buildpackage repository cache",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cacheDir, "cache-dir", "c", "",
		"repocache base directory")
	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "debug output")
	_ = root.MarkPersistentFlagRequired("cache-dir")

	root.AddCommand(newStatCmd(&cacheDir, &debug))
	return root
}

func newStatCmd(cacheDir *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "stat",
		Short: "Display repocache status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := zerolog.InfoLevel
			if *debug {
				level = zerolog.DebugLevel
			}
			log := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
				Level(level).With().Timestamp().Logger()

			path, err := filepath.Abs(*cacheDir)
			if err != nil {
				return err
			}
			log.Debug().Str("path", path).Msg("checking repository cache")

			stats, err := statCache(path)
			if err != nil {
				return err
			}

			pretty := ""
			if stats.TotalSize >= 1024 {
				pretty = fmt.Sprintf(" (%s)", humanize.IBytes(uint64(stats.TotalSize)))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Status of %s:\n", path)
			fmt.Fprintf(cmd.OutOrStdout(),
				"Total of %d repos taking %d bytes%s of disk space\n",
				stats.Repos, stats.TotalSize, pretty)
			return nil
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "repocache-adm: %v\n", err)
		os.Exit(1)
	}
}
