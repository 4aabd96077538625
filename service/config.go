package service

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/intel/obs-service-git-buildpackage/errors"
)

// DefaultConfigFiles are the config files read when the caller does not name
// any. A missing file is not an error; later files override earlier ones.
var DefaultConfigFiles = []string{
	"/etc/obs/services/git-buildpackage",
	"~/.obs/git-buildpackage",
}

const (
	// configSection is the one-and-only INI section the service reads.
	configSection = "general"

	// envPrefix prefixes the environment variables overriding config keys,
	// e.g. OBS_GIT_BUILDPACKAGE_REPO_CACHE_DIR.
	envPrefix = "OBS_GIT_BUILDPACKAGE"
)

// Config is the source-service configuration.
type Config struct {
	// RepoCacheDir is the repository cache root.
	RepoCacheDir string

	// GBPUser and GBPGroup, when set, run the exporter under this identity.
	GBPUser  string
	GBPGroup string
}

// configDefaults maps config keys to their default values. The key set also
// defines which environment overrides are honored.
var configDefaults = map[string]string{
	"repo-cache-dir": "/var/cache/obs/git-buildpackage-repos/",
	"gbp-user":       "",
	"gbp-group":      "",
}

// ReadConfig loads the service configuration from the given INI files,
// applying OBS_GIT_BUILDPACKAGE_* environment overrides on top. Missing
// files are skipped; an unparseable file is an INVALID_CONFIGURATION error.
func ReadConfig(filenames []string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("ini")
	for key, val := range configDefaults {
		v.SetDefault(configSection+"."+key, val)
	}

	for _, name := range filenames {
		name = expandHome(name)
		v.SetConfigFile(name)
		if err := v.MergeInConfig(); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, errors.Wrapf(err, errors.CodeInvalidConfig,
				"failed to read config file %s", name)
		}
	}

	for key := range configDefaults {
		envvar := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
		if val, ok := os.LookupEnv(envvar); ok {
			v.Set(configSection+"."+key, val)
		}
	}

	return &Config{
		RepoCacheDir: v.GetString(configSection + ".repo-cache-dir"),
		GBPUser:      v.GetString(configSection + ".gbp-user"),
		GBPGroup:     v.GetString(configSection + ".gbp-group"),
	}, nil
}

// expandHome resolves a leading ~/ against the current user's home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}
