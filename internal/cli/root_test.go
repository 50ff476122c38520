package cli

import (
	"bytes"
	"testing"

	"mrboard/internal/cli/utils"
	"mrboard/internal/pkg/fs"
	"mrboard/internal/systemcodes"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func newTestCommand(args ...string) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("config", "", "")
	cmd.Flags().BoolP("verbose", "v", false, "")
	_ = cmd.Flags().Parse(args)

	return cmd
}

func Test_parseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel(true, "error"))
	assert.Equal(t, zerolog.ErrorLevel, parseLevel(false, "error"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel(false, ""))
	assert.Equal(t, zerolog.WarnLevel, parseLevel(false, "loud"))
}

func Test_configureLogging(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var out bytes.Buffer
	configureLogging(zerolog.InfoLevel, &out)

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}

func Test_preRun(t *testing.T) {
	oldLoadConfig := loadConfig
	oldExit := exit
	defer func() {
		loadConfig = oldLoadConfig
		exit = oldExit
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}()

	t.Run("exits when the config cannot be loaded", func(t *testing.T) {
		code := 0
		exit = func(c int) { code = c }
		loadConfig = func(string, fs.Filesystem) (*viper.Viper, error) {
			return nil, errors.New("bad config")
		}

		var stderr bytes.Buffer
		cmd := newTestCommand()
		cmd.SetErr(&stderr)
		preRun(cmd, nil)

		assert.Equal(t, systemcodes.ErrorCodeConfig, code)
		assert.Contains(t, stderr.String(), "bad config")
	})

	t.Run("loads the config at warn level", func(t *testing.T) {
		exit = func(int) { t.Fatal("unexpected exit") }
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		var levelDuringLoad zerolog.Level
		loadConfig = func(string, fs.Filesystem) (*viper.Viper, error) {
			levelDuringLoad = zerolog.GlobalLevel()
			return viper.New(), nil
		}

		cmd := newTestCommand()
		cmd.SetErr(&bytes.Buffer{})
		preRun(cmd, nil)

		assert.Equal(t, zerolog.WarnLevel, levelDuringLoad)
		assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
	})

	t.Run("stores the config and applies verbose", func(t *testing.T) {
		exit = func(int) { t.Fatal("unexpected exit") }
		var gotPath string
		v := viper.New()
		v.Set("gitlab.url", "https://gitlab.example.com")
		loadConfig = func(path string, _ fs.Filesystem) (*viper.Viper, error) {
			gotPath = path
			return v, nil
		}

		cmd := newTestCommand("--config", "/tmp/mrboard.yaml", "-v")
		cmd.SetErr(&bytes.Buffer{})
		preRun(cmd, nil)

		assert.Equal(t, "/tmp/mrboard.yaml", gotPath)
		assert.Equal(t, "https://gitlab.example.com", utils.Config().GetString("gitlab.url"))
		assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	})
}
