package envvault

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trackEnv snapshots and restores the process environment entries the test
// will mutate through the container's write-through behavior.
func trackEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, value) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
	}
}

func TestDotEnv_SetWritesThrough(t *testing.T) {
	trackEnv(t, "EXAMPLE_KEY")
	d, err := NewDotEnv()
	require.NoError(t, err)

	require.NoError(t, d.Set("EXAMPLE_KEY", "example_value"))

	got, err := d.Get("EXAMPLE_KEY")
	require.NoError(t, err)
	assert.Equal(t, "example_value", got)
	assert.Equal(t, "example_value", os.Getenv("EXAMPLE_KEY"))
}

func TestDotEnv_Normalization(t *testing.T) {
	trackEnv(t, "LOWER_KEY", "QUOTED", "PADDED")
	d, err := NewDotEnv()
	require.NoError(t, err)

	require.NoError(t, d.Set(" lower_key ", "value"))
	require.NoError(t, d.Set("QUOTED", `"quoted value"`))
	require.NoError(t, d.Set("PADDED", "  padded  "))

	assert.Equal(t, "value", d.GetDefault("LOWER_KEY", ""))
	assert.Equal(t, "quoted value", d.GetDefault("QUOTED", ""))
	assert.Equal(t, "padded", d.GetDefault("PADDED", ""))

	// Lookups normalize too.
	assert.Equal(t, "value", d.GetDefault("lower_key", ""))
}

func TestDotEnv_SetEmptyKey(t *testing.T) {
	d, err := NewDotEnv()
	require.NoError(t, err)
	assert.ErrorIs(t, d.Set("  ", "value"), ErrInvalidAssignment)
}

func TestDotEnv_GetUnset(t *testing.T) {
	d, err := NewDotEnv()
	require.NoError(t, err)

	_, err = d.Get("UNSET_KEY")
	assert.ErrorIs(t, err, ErrVariableNotSet)
	assert.Equal(t, "fallback", d.GetDefault("UNSET_KEY", "fallback"))
	assert.False(t, d.Has("UNSET_KEY"))
}

func TestDotEnv_SetString(t *testing.T) {
	trackEnv(t, "APP_ENV", "DEBUG", "SKIPPED")
	d, err := NewDotEnv()
	require.NoError(t, err)

	require.NoError(t, d.SetString("APP_ENV=dev DEBUG=true # SKIPPED=yes"))
	assert.Equal(t, "dev", d.GetDefault("APP_ENV", ""))
	assert.Equal(t, "true", d.GetDefault("DEBUG", ""))
	assert.False(t, d.Has("SKIPPED"))

	assert.ErrorIs(t, d.SetString("NOT_AN_ASSIGNMENT"), ErrInvalidAssignment)
}

func TestNewDotEnv_WithAssignments(t *testing.T) {
	trackEnv(t, "A", "B", "C")
	d, err := NewDotEnv("A=1 B=2", "C=3")
	require.NoError(t, err)

	assert.Equal(t, 3, d.Len())
	assert.Equal(t, []string{"A", "B", "C"}, d.Keys())

	_, err = NewDotEnv("broken")
	assert.ErrorIs(t, err, ErrInvalidAssignment)
}

func TestDotEnv_Delete(t *testing.T) {
	trackEnv(t, "A", "B")
	d, err := NewDotEnv("A=1 B=2")
	require.NoError(t, err)

	// Unset keys are skipped rather than reported.
	require.NoError(t, d.Delete("A", "NEVER_SET"))
	assert.False(t, d.Has("A"))
	_, present := os.LookupEnv("A")
	assert.False(t, present)
	assert.True(t, d.Has("B"))
}

func TestDotEnv_ValuesIsACopy(t *testing.T) {
	trackEnv(t, "A")
	d, err := NewDotEnv("A=1")
	require.NoError(t, err)

	values := d.Values()
	values["A"] = "mutated"
	assert.Equal(t, "1", d.GetDefault("A", ""))
}

func TestDotEnv_String(t *testing.T) {
	trackEnv(t, "ZEBRA", "APPLE")
	d, err := NewDotEnv("ZEBRA=z APPLE=a")
	require.NoError(t, err)
	assert.Equal(t, "APPLE=a\nZEBRA=z\n", d.String())
}
