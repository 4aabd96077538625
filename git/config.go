package git

import (
	"github.com/intel/obs-service-git-buildpackage/errors"
)

// SetConfig adds a config value. With replace set, all existing values for
// the key are replaced; otherwise the value is added alongside any existing
// ones.
func (r *Repository) SetConfig(name, value string, replace bool) error {
	mode := "--add"
	if replace {
		mode = "--replace-all"
	}

	if _, err := r.runGit("config", mode, name, value); err != nil {
		return errors.Wrapf(err, errors.CodeConfigUpdate,
			"failed to set config %s=%s (%s)", name, value, stderrOf(err))
	}
	return nil
}
