package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	authorscmd "mrboard/internal/cli/authors"
	cachecmd "mrboard/internal/cli/cache"
	listcmd "mrboard/internal/cli/list"
	projectscmd "mrboard/internal/cli/projects"
	"mrboard/internal/cli/utils"
	watchcmd "mrboard/internal/cli/watch"
	whoamicmd "mrboard/internal/cli/whoami"
	"mrboard/internal/configutils"
	"mrboard/internal/pkg/fs"
	"mrboard/internal/systemcodes"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	loadConfig = configutils.LoadForWorkingDir
	exit       = os.Exit
)

func parseLevel(verbose bool, level string) zerolog.Level {
	if verbose {
		return zerolog.DebugLevel
	}

	l, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.WarnLevel
	}

	return l
}

// configureLogging points both loggers at out with the same level.
func configureLogging(level zerolog.Level, out io.Writer) {
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Logger()

	lvl, err := logrus.ParseLevel(level.String())
	if err != nil {
		lvl = logrus.WarnLevel
	}
	logrus.SetOutput(out)
	logrus.SetLevel(lvl)
}

func preRun(cmd *cobra.Command, args []string) {
	// Loading the config logs at debug; stay quiet until the level is known.
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	path := configutils.GetStringFlagOrDefault(cmd.Flags(), "config", "")
	v, err := loadConfig(path, fs.OS{})
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		exit(systemcodes.ErrorCodeConfig)
		return
	}

	verbose := configutils.GetBoolFlagOrDefault(cmd.Flags(), "verbose", false)
	configureLogging(parseLevel(verbose, v.GetString("log.level")), cmd.ErrOrStderr())
	utils.SetConfig(v)
}

var rootCmd = &cobra.Command{
	Use:              "mrboard",
	Short:            "mrboard command-line dashboard for GitLab merge requests",
	Long:             `Lists, filters and watches merge requests across your GitLab projects.`,
	Version:          fmt.Sprintf("%v, commit %v, built at %v", version, commit, date),
	PersistentPreRun: preRun,
}

func Execute() {
	rootCmd.AddCommand(
		listcmd.New(),
		watchcmd.New(),
		projectscmd.New(),
		authorscmd.New(),
		whoamicmd.New(),
		cachecmd.New(),
	)

	rootCmd.PersistentFlags().String("config", "", "config path")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		exit(systemcodes.ErrorCodeGeneric)
	}
}
