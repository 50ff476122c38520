package list

import (
	"context"
	"fmt"

	"mrboard/internal/cli/paramutils"
	"mrboard/internal/cli/utils"
	"mrboard/internal/clientutils"
	"mrboard/internal/domain/mergerequest"

	"github.com/spf13/cobra"
)

type Lister interface {
	ListForProject(ctx context.Context, projectID string, f *mergerequest.Filter) ([]*mergerequest.Entity, error)
	ListAllAccessible(ctx context.Context, f *mergerequest.Filter) ([]*mergerequest.Entity, error)
}

type projectLister interface {
	Projects(ctx context.Context, search string) ([]*mergerequest.ProjectSummary, error)
}

// Fetch lists merge requests of project, or across all projects when it is
// empty.
func Fetch(ctx context.Context, l Lister, f mergerequest.Filter, project string) ([]*mergerequest.Entity, error) {
	if project == "" {
		return l.ListAllAccessible(ctx, &f)
	}

	return l.ListForProject(ctx, project, &f)
}

var promptProjectSelect = utils.PromptProjectSelect

func selectProject(ctx context.Context, pl projectLister) (string, error) {
	projects, err := pl.Projects(ctx, "")
	if err != nil {
		return "", err
	}

	p, err := promptProjectSelect(projects)
	if err != nil {
		return "", err
	}

	return p.PathWithNamespace, nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	flags := paramutils.NewFlagRepo(cmd.Flags())

	params := &Params{}
	err := FillParams(flags, params)
	if err != nil {
		return err
	}

	err = ValidateParams(params)
	if err != nil {
		return err
	}

	svc, cl, err := clientutils.ClientFactory{}.DefaultListService(utils.Config())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if params.Select {
		params.Project, err = selectProject(ctx, cl)
		if err != nil {
			return err
		}
	}

	project := ResolveProject(params, cl.URL)
	entities, err := Fetch(ctx, svc, params.Filter, project)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), utils.MergeRequestTable(entities, project == ""))
	return nil
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List merge requests",
		Long: `Lists merge requests of the project behind your git remote, a given
project, or every project you can access.`,
		Args: cobra.NoArgs,
		Run:  utils.RunCommandWrapper(runCmd),
	}

	SetUpFlags(cmd)

	return cmd
}
