package authors

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

type authorSearcher interface {
	SearchAuthors(ctx context.Context, query string) []mergerequest.User
}

func execute(ctx context.Context, s authorSearcher, query string, out io.Writer) error {
	users := s.SearchAuthors(ctx, query)
	if ctx.Err() != nil {
		return mergerequest.ErrCancelled
	}

	if len(users) == 0 {
		fmt.Fprintln(out, "No authors found.")
		return nil
	}

	fmt.Fprint(out, utils.UserTable(users))
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	cl, err := clientutils.ClientFactory{}.DefaultClient(utils.Config())
	if err != nil {
		return err
	}

	return execute(cmd.Context(), cl, paramutils.ParseIDArg(args), cmd.OutOrStdout())
}

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "authors [QUERY]",
		Short: "Search for merge request authors",
		Long: `Searches the members of your primary group, for use with
list --author.`,
		Args: cobra.MaximumNArgs(1),
		Run:  utils.RunCommandWrapper(runCmd),
	}
}
