package list

import (
	"time"

	"mrboard/internal/cli/paramutils"
	"mrboard/internal/domain/mergerequest"
	"mrboard/internal/errcodes"
	"mrboard/internal/gitutils"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

// Params are the flags shared by list and watch.
type Params struct {
	Project string
	All     bool
	Select  bool
	Filter  mergerequest.Filter
}

var detectProject = gitutils.DetectProject

func SetUpFlags(cmd *cobra.Command) {
	cmd.Flags().
		StringP("project", "p", "", "project id or path, e.g. group/project (default detected from the git remote)")
	cmd.Flags().Bool("all", false, "list across all accessible projects")
	cmd.Flags().Bool("select", false, "pick the project interactively")
	cmd.Flags().
		String("state", "open", "merge request state (open, closed, merged, all)")
	cmd.Flags().StringSlice("author", nil, "author username, repeatable")
	cmd.Flags().String("title", "", "only titles containing this text")
	cmd.Flags().String("exclude-title", "", "drop titles containing this text")
	cmd.Flags().Bool("draft", false, "only drafts, or with =false only ready merge requests")
	cmd.Flags().String("created-after", "", "created on or after, YYYY-MM-DD")
	cmd.Flags().String("created-before", "", "created before, YYYY-MM-DD")
	cmd.Flags().
		StringSlice("in-project", nil, "with --all, only projects matching this name, path or group, repeatable")
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, errcodes.ErrInvalidDate
	}

	return t, nil
}

func FillParams(flags paramutils.FlagRepo, params *Params) error {
	params.Project = flags.GetStringOrDefault("project", "")
	params.All = flags.GetBoolOrDefault("all", false)
	params.Select = flags.GetBoolOrDefault("select", false)

	state, err := mergerequest.ParseState(flags.GetStringOrDefault("state", ""))
	if err != nil {
		return err
	}

	f := &params.Filter
	f.State = state
	f.Authors = flags.GetStringSliceOrDefault("author", nil)
	f.Title = flags.GetStringOrDefault("title", "")
	f.ExcludeTitle = flags.GetStringOrDefault("exclude-title", "")
	f.Draft = flags.GetOptionalBool("draft")
	f.Projects = flags.GetStringSliceOrDefault("in-project", nil)

	f.CreatedAfter, err = parseDate(flags.GetStringOrDefault("created-after", ""))
	if err != nil {
		return err
	}

	f.CreatedBefore, err = parseDate(flags.GetStringOrDefault("created-before", ""))
	if err != nil {
		return err
	}

	return nil
}

var ValidateParams = func(params *Params) error {
	if params.Project != "" && (params.All || params.Select) {
		return errcodes.ErrProjectAndAllConflict
	}

	if params.All && params.Select {
		return errcodes.ErrProjectAndAllConflict
	}

	f := params.Filter
	if !f.CreatedAfter.IsZero() && !f.CreatedBefore.IsZero() && f.CreatedAfter.After(f.CreatedBefore) {
		return errcodes.ErrDateRangeInverted
	}

	return nil
}

// ResolveProject picks the project to list. An empty result means every
// accessible project.
func ResolveProject(params *Params, instanceURL string) string {
	if params.All {
		return ""
	}

	if params.Project != "" {
		return params.Project
	}

	p, err := detectProject(instanceURL)
	if err != nil {
		log.Debug().Err(err).Msg("no project detected, listing all projects")
		return ""
	}

	return p
}
