package utils

import (
	"fmt"
	"strconv"

	"mrboard/internal/domain/mergerequest"

	"github.com/gosuri/uitable"
)

const (
	maxColWidth  = 60
	updateFormat = "2006-01-02 15:04"
)

func projectName(e *mergerequest.Entity) string {
	if e.Project != nil && e.Project.PathWithNamespace != "" {
		return e.Project.PathWithNamespace
	}

	return strconv.FormatInt(e.ProjectID, 10)
}

// MergeRequestTable renders merge requests, with a project column when they
// may come from more than one project.
func MergeRequestTable(entities []*mergerequest.Entity, withProject bool) string {
	if len(entities) == 0 {
		return "No merge requests found.\n"
	}

	table := uitable.New()
	table.MaxColWidth = maxColWidth

	header := []interface{}{"!", "TITLE", "AUTHOR", "SRC/DEST", "UPDATED", "URL"}
	if withProject {
		header = append([]interface{}{"PROJECT"}, header...)
	}
	table.AddRow(header...)

	for _, e := range entities {
		title := e.Title
		if e.Draft {
			title = "[draft] " + title
		}

		row := []interface{}{
			fmt.Sprintf("!%d", e.IID),
			title,
			e.Author.Username,
			fmt.Sprintf("%s -> %s", e.Source, e.Destination),
			e.Updated.Local().Format(updateFormat),
			e.URL,
		}
		if withProject {
			row = append([]interface{}{projectName(e)}, row...)
		}
		table.AddRow(row...)
	}

	return table.String() + "\n"
}

func ProjectTable(projects []*mergerequest.ProjectSummary) string {
	table := uitable.New()
	table.MaxColWidth = maxColWidth
	table.AddRow("ID", "PATH", "URL")
	for _, p := range projects {
		table.AddRow(p.ID, p.PathWithNamespace, p.WebURL)
	}

	return table.String() + "\n"
}

func UserTable(users []mergerequest.User) string {
	table := uitable.New()
	table.MaxColWidth = maxColWidth
	table.AddRow("USERNAME", "NAME")
	for _, u := range users {
		table.AddRow(u.Username, u.Name)
	}

	return table.String() + "\n"
}
