package check

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_Catalog(t *testing.T) {
	r := NewRegistry("/project", "/project/src-tauri")

	require.Equal(t, 4, r.Len())
	assert.Equal(t, []string{RustTests, FrontendLint, TypeCheck, FormatCheck}, r.Names())

	t.Run("rust_tests_runs_in_src_tauri", func(t *testing.T) {
		def, err := r.Lookup(RustTests)
		require.NoError(t, err)
		assert.Equal(t, "/project/src-tauri", def.Dir)
		assert.Equal(t, []string{"cargo", "test", "--lib"}, def.Command)
	})

	t.Run("frontend_checks_run_in_project_root", func(t *testing.T) {
		for _, name := range []string{FrontendLint, TypeCheck, FormatCheck} {
			def, err := r.Lookup(name)
			require.NoError(t, err)
			assert.Equal(t, "/project", def.Dir, "check %s", name)
		}
	})
}

func TestRegistry_LookupUnknown(t *testing.T) {
	r := NewRegistry("/project", "/project/src-tauri")

	_, err := r.Lookup("nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCheck))
}

func TestRegistry_AllPreservesOrder(t *testing.T) {
	r := NewRegistryWith(
		Definition{Name: "b", Command: []string{"true"}},
		Definition{Name: "a", Command: []string{"true"}},
	)

	defs := r.All()
	require.Len(t, defs, 2)
	assert.Equal(t, "b", defs[0].Name)
	assert.Equal(t, "a", defs[1].Name)
}

func TestExitStatus(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s := Success()
		assert.True(t, s.Success())
		assert.Equal(t, 0, s.Code)
	})

	t.Run("failure_carries_code", func(t *testing.T) {
		s := Failure(2)
		assert.False(t, s.Success())
		assert.Contains(t, s.String(), "exit 2")
	})

	t.Run("timed_out", func(t *testing.T) {
		assert.False(t, TimedOut().Success())
	})

	t.Run("spawn_error_carries_cause", func(t *testing.T) {
		cause := errors.New("no such file")
		s := SpawnError(cause)
		assert.False(t, s.Success())
		assert.Contains(t, s.String(), "no such file")
	})
}
