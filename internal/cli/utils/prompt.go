package utils

import (
	"mrboard/internal/domain/mergerequest"
	"mrboard/internal/errcodes"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/pkg/errors"
)

var askOne = survey.AskOne

func PromptProjectSelect(projects []*mergerequest.ProjectSummary) (*mergerequest.ProjectSummary, error) {
	if len(projects) == 0 {
		return nil, errcodes.ErrNoProjectSelected
	}

	options := make([]string, 0, len(projects))
	for _, p := range projects {
		options = append(options, p.PathWithNamespace)
	}

	var answer string
	prompt := &survey.Select{
		Message:  "Select a project",
		Options:  options,
		PageSize: 10,
	}
	err := askOne(prompt, &answer)
	if errors.Is(err, terminal.InterruptErr) {
		return nil, mergerequest.ErrCancelled
	}
	if err != nil {
		return nil, err
	}

	for _, p := range projects {
		if p.PathWithNamespace == answer {
			return p, nil
		}
	}

	return nil, errcodes.ErrNoProjectSelected
}
