package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intel/obs-service-git-buildpackage/errors"
	"github.com/intel/obs-service-git-buildpackage/exec"
)

// fakeExecutor records exporter invocations and responds from a script.
type fakeExecutor struct {
	calls   [][]string
	respond func(args []string) (*exec.Result, error)
}

func (f *fakeExecutor) WithEnv(map[string]string) exec.Executor   { return f }
func (f *fakeExecutor) WithDir(string) exec.Executor              { return f }
func (f *fakeExecutor) WithContext(context.Context) exec.Executor { return f }
func (f *fakeExecutor) WithTimeout(string) exec.Executor          { return f }
func (f *fakeExecutor) WithInheritEnv() exec.Executor             { return f }
func (f *fakeExecutor) Clone() exec.Executor                      { return f }

func (f *fakeExecutor) Run(args ...string) (*exec.Result, error) {
	f.calls = append(f.calls, args)
	if f.respond != nil {
		return f.respond(args)
	}
	return &exec.Result{}, nil
}

func workdirWithSpec(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		full := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("Name: test\n"), 0o644))
	}
	return dir
}

func TestParseExportMode(t *testing.T) {
	for _, valid := range []string{"auto", "yes", "no"} {
		mode, err := ParseExportMode(valid)
		require.NoError(t, err)
		assert.Equal(t, ExportMode(valid), mode)
	}

	_, err := ParseExportMode("maybe")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
}

func TestFindSpec(t *testing.T) {
	t.Run("single spec", func(t *testing.T) {
		dir := workdirWithSpec(t, "packaging/foo.spec")

		spec, err := FindSpec(dir, "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "packaging", "foo.spec"), spec)
	})

	t.Run("no spec", func(t *testing.T) {
		_, err := FindSpec(t.TempDir(), "")
		require.Error(t, err)
		assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	})

	t.Run("multiple specs need a preferred name", func(t *testing.T) {
		dir := workdirWithSpec(t, "foo.spec", "bar.spec")

		_, err := FindSpec(dir, "")
		require.Error(t, err)
		assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))

		spec, err := FindSpec(dir, "bar")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "bar.spec"), spec)
	})

	t.Run("preferred name missing", func(t *testing.T) {
		dir := workdirWithSpec(t, "foo.spec")

		_, err := FindSpec(dir, "other")
		require.Error(t, err)
		assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	})

	t.Run("specs under .git are ignored", func(t *testing.T) {
		dir := workdirWithSpec(t, ".git/stale.spec", "foo.spec")

		spec, err := FindSpec(dir, "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "foo.spec"), spec)
	})
}

func TestExportRPM(t *testing.T) {
	t.Run("argument construction", func(t *testing.T) {
		dir := workdirWithSpec(t, "foo.spec")
		fake := &fakeExecutor{}
		exporter := NewExporter(WithExecutor(fake))

		outdir := t.TempDir()
		err := exporter.ExportRPM(context.Background(), dir, ExportOptions{
			Outdir:     outdir,
			Revision:   "v1.0",
			SpecVcsTag: "%(tagname)s",
		})
		require.NoError(t, err)

		require.Len(t, fake.calls, 1)
		args := fake.calls[0]
		assert.Equal(t, "git-buildpackage-rpm", args[0])
		assert.Contains(t, args, "--git-ignore-branch")
		assert.Contains(t, args, "--git-no-hooks")
		assert.Contains(t, args, "--git-export-dir="+outdir)
		assert.Contains(t, args, "--git-export=v1.0")
		assert.Contains(t, args, "--git-builder=osc")
		assert.Contains(t, args, "--git-export-only")
		assert.Contains(t, args, "--git-spec-vcs-tag=%(tagname)s")
		assert.Contains(t, args, "--git-spec-file="+filepath.Join(dir, "foo.spec"))
		assert.NotContains(t, args, "--git-verbose")
	})

	t.Run("missing spec runs nothing", func(t *testing.T) {
		fake := &fakeExecutor{}
		exporter := NewExporter(WithExecutor(fake))

		err := exporter.ExportRPM(context.Background(), t.TempDir(), ExportOptions{})
		require.Error(t, err)
		assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
		assert.Empty(t, fake.calls)
	})

	t.Run("exporter failure", func(t *testing.T) {
		dir := workdirWithSpec(t, "foo.spec")
		fake := &fakeExecutor{
			respond: func(args []string) (*exec.Result, error) {
				return &exec.Result{ExitCode: 1}, &exec.ExecError{
					ExitCode: 1,
					Stderr:   "gbp:error: upstream tarball missing",
				}
			},
		}
		exporter := NewExporter(WithExecutor(fake))

		err := exporter.ExportRPM(context.Background(), dir, ExportOptions{})
		require.Error(t, err)
		assert.Equal(t, errors.CodeExportFailed, errors.GetCode(err))
		assert.Contains(t, err.Error(), "upstream tarball missing")
	})
}

func TestExportDeb(t *testing.T) {
	fake := &fakeExecutor{}
	exporter := NewExporter(WithExecutor(fake))

	err := exporter.ExportDeb(context.Background(), t.TempDir(), ExportOptions{
		Revision: "master",
		Verbose:  true,
	})
	require.NoError(t, err)

	require.Len(t, fake.calls, 1)
	args := fake.calls[0]
	assert.Equal(t, "git-buildpackage", args[0])
	assert.Contains(t, args, "--git-purge")
	assert.Contains(t, args, "--git-builder="+debBuilderScript)
	assert.Contains(t, args, "--git-export=master")
	assert.Contains(t, args, "--git-verbose")
}

func TestHasDebianDir(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, HasDebianDir(dir))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "debian"), 0o755))
	assert.True(t, HasDebianDir(dir))
}
