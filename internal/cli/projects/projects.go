package projects

import (
	"context"
	"fmt"
	"io"

	"mrboard/internal/cli/paramutils"
	"mrboard/internal/cli/utils"
	"mrboard/internal/clientutils"
	"mrboard/internal/domain/mergerequest"

	"github.com/spf13/cobra"
)

type projectLister interface {
	Projects(ctx context.Context, search string) ([]*mergerequest.ProjectSummary, error)
}

func execute(ctx context.Context, pl projectLister, search string, out io.Writer) error {
	projects, err := pl.Projects(ctx, search)
	if err != nil {
		return err
	}

	if len(projects) == 0 {
		fmt.Fprintln(out, "No projects found.")
		return nil
	}

	fmt.Fprint(out, utils.ProjectTable(projects))
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	flags := paramutils.NewFlagRepo(cmd.Flags())

	cl, err := clientutils.ClientFactory{}.DefaultClient(utils.Config())
	if err != nil {
		return err
	}

	return execute(cmd.Context(), cl, flags.GetStringOrDefault("search", ""), cmd.OutOrStdout())
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List the projects you are a member of",
		Args:  cobra.NoArgs,
		Run:   utils.RunCommandWrapper(runCmd),
	}

	cmd.Flags().StringP("search", "s", "", "only projects matching this text")

	return cmd
}
