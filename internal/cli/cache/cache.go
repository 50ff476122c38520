package cache

import (
	"fmt"
	"io"

	"mrboard/internal/cli/utils"
	"mrboard/internal/clientutils"
	"mrboard/internal/domain/mergerequest"

	"github.com/spf13/cobra"
)

const timeFormat = "2006-01-02 15:04:05"

type projectCache interface {
	Clear() error
	Status() mergerequest.CacheStatus
}

func showStatus(c projectCache, out io.Writer) error {
	st := c.Status()
	fmt.Fprintf(out, "Location: %s\n", st.Location)
	fmt.Fprintf(out, "Entries:  %d (%d fresh, %d stale)\n", st.Total, st.Fresh, st.Stale)
	if !st.OldestFresh.IsZero() {
		fmt.Fprintf(out, "Oldest:   %s\n", st.OldestFresh.Local().Format(timeFormat))
	}

	return nil
}

func clearCache(c projectCache, out io.Writer) error {
	err := c.Clear()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Project cache cleared.")
	return nil
}

func withCache(fn func(projectCache, io.Writer) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, err := clientutils.ClientFactory{}.DefaultProjectCache(utils.Config())
		if err != nil {
			return err
		}

		return fn(c, cmd.OutOrStdout())
	}
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the project metadata cache",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Show cache entries and their freshness",
			Args:  cobra.NoArgs,
			Run:   utils.RunCommandWrapper(withCache(showStatus)),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cached project",
			Args:  cobra.NoArgs,
			Run:   utils.RunCommandWrapper(withCache(clearCache)),
		},
	)

	return cmd
}
