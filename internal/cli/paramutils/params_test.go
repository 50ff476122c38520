package paramutils

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) FlagRepo {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("title", "", "")
	fs.Bool("all", false, "")
	fs.Bool("draft", false, "")
	fs.StringSlice("author", nil, "")
	fs.Duration("interval", 0, "")
	require.NoError(t, fs.Parse(args))

	return NewFlagRepo(fs)
}

func Test_PFlagSetWrapper(t *testing.T) {
	t.Run("falls back to defaults for unset flags", func(t *testing.T) {
		flags := newFlags(t)
		assert.Equal(t, "d", flags.GetStringOrDefault("title", "d"))
		assert.False(t, flags.GetBoolOrDefault("all", false))
		assert.Equal(t, []string{"x"}, flags.GetStringSliceOrDefault("author", []string{"x"}))
		assert.Equal(t, time.Minute, flags.GetDurationOrDefault("interval", time.Minute))
		assert.Nil(t, flags.GetOptionalBool("draft"))
	})

	t.Run("falls back to defaults for unknown flags", func(t *testing.T) {
		flags := newFlags(t)
		assert.Equal(t, "d", flags.GetStringOrDefault("missing", "d"))
		assert.Equal(t, true, flags.GetBoolOrDefault("missing", true))
		assert.Nil(t, flags.GetOptionalBool("missing"))
	})

	t.Run("reads given flags", func(t *testing.T) {
		flags := newFlags(t,
			"--title", "fix",
			"--all",
			"--author", "alice",
			"--author", "bob,carol",
			"--interval", "10s",
			"--draft=false",
		)
		assert.Equal(t, "fix", flags.GetStringOrDefault("title", ""))
		assert.True(t, flags.GetBoolOrDefault("all", false))
		assert.Equal(t, []string{"alice", "bob", "carol"}, flags.GetStringSliceOrDefault("author", nil))
		assert.Equal(t, 10*time.Second, flags.GetDurationOrDefault("interval", time.Minute))

		draft := flags.GetOptionalBool("draft")
		require.NotNil(t, draft)
		assert.False(t, *draft)
	})
}

func Test_ParseIDArg(t *testing.T) {
	assert.Equal(t, "id", ParseIDArg([]string{"id"}))
	assert.Equal(t, "", ParseIDArg([]string{}))
}
