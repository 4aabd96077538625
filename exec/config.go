package exec

import (
	"os"
	"syscall"
)

// config holds the configuration for command execution. It distinguishes
// between global settings (set at creation time) and local settings (set
// per-execution). Local settings override global settings and are reset
// after every Run.
type config struct {
	globalEnv        map[string]string
	globalDir        string
	globalInheritEnv bool

	// credential, when set, runs commands under a different uid/gid.
	// Global only; privilege drop is not a per-run decision.
	credential *syscall.Credential

	localEnv        map[string]string
	localDir        string
	localInheritEnv *bool
}

// newConfig creates a new configuration with default values.
func newConfig() *config {
	return &config{
		globalEnv: make(map[string]string),
		localEnv:  make(map[string]string),
	}
}

// clone creates a deep copy of the configuration without local settings.
func (c *config) clone() *config {
	clone := &config{
		globalEnv:        make(map[string]string, len(c.globalEnv)),
		globalDir:        c.globalDir,
		globalInheritEnv: c.globalInheritEnv,
		credential:       c.credential,
		localEnv:         make(map[string]string),
		localDir:         c.localDir,
	}

	for k, v := range c.globalEnv {
		clone.globalEnv[k] = v
	}
	for k, v := range c.localEnv {
		clone.localEnv[k] = v
	}
	if c.localInheritEnv != nil {
		val := *c.localInheritEnv
		clone.localInheritEnv = &val
	}

	return clone
}

// effectiveEnviron builds the process environment for the command, merging
// the inherited environment (if enabled) with global and local variables.
// Local settings override global settings.
func (c *config) effectiveEnviron() []string {
	var environ []string
	if c.effectiveInheritEnv() {
		environ = os.Environ()
	}

	merged := make(map[string]string, len(c.globalEnv)+len(c.localEnv))
	for k, v := range c.globalEnv {
		merged[k] = v
	}
	for k, v := range c.localEnv {
		merged[k] = v
	}
	for k, v := range merged {
		environ = append(environ, k+"="+v)
	}

	return environ
}

// effectiveDir returns the effective working directory.
func (c *config) effectiveDir() string {
	if c.localDir != "" {
		return c.localDir
	}
	return c.globalDir
}

// effectiveInheritEnv returns whether to inherit environment variables.
func (c *config) effectiveInheritEnv() bool {
	if c.localInheritEnv != nil {
		return *c.localInheritEnv
	}
	return c.globalInheritEnv
}

// resetLocal resets all local settings.
// This is called after each Run() so local settings don't carry over.
func (c *config) resetLocal() {
	c.localEnv = make(map[string]string)
	c.localDir = ""
	c.localInheritEnv = nil
}
