package gitlab

import (
	"time"

	"mrboard/internal/domain/mergerequest"

	"github.com/tidwall/gjson"
)

func parseMergeRequests(res gjson.Result) []*mergerequest.Entity {
	var entities []*mergerequest.Entity
	res.ForEach(func(key, value gjson.Result) bool {
		entities = append(entities, parseMergeRequest(value))
		return true
	})

	return entities
}

func parseMergeRequest(value gjson.Result) *mergerequest.Entity {
	state, err := mergerequest.ParseState(value.Get("state").String())
	if err != nil {
		state = mergerequest.State(value.Get("state").String())
	}

	e := &mergerequest.Entity{
		ID:          mergerequest.EntityID(value.Get("id").Int()),
		IID:         value.Get("iid").Int(),
		Title:       value.Get("title").String(),
		State:       state,
		Created:     value.Get("created_at").Time(),
		Updated:     value.Get("updated_at").Time(),
		Merged:      optionalTime(value.Get("merged_at")),
		Closed:      optionalTime(value.Get("closed_at")),
		Author:      parseUser(value.Get("author")),
		Assignees:   parseUsers(value.Get("assignees")),
		Reviewers:   parseUsers(value.Get("reviewers")),
		Source:      value.Get("source_branch").String(),
		Destination: value.Get("target_branch").String(),
		URL:         value.Get("web_url").String(),
		ProjectID:   value.Get("project_id").Int(),
		Draft:       value.Get("draft").Bool() || value.Get("work_in_progress").Bool(),
		Comments:    value.Get("user_notes_count").Int(),
		Upvotes:     value.Get("upvotes").Int(),
		Downvotes:   value.Get("downvotes").Int(),
	}

	for _, l := range value.Get("labels").Array() {
		e.Labels = append(e.Labels, l.String())
	}

	return e
}

func optionalTime(v gjson.Result) *time.Time {
	if v.Type == gjson.Null || v.String() == "" {
		return nil
	}

	t := v.Time()
	return &t
}

func parseUser(v gjson.Result) mergerequest.User {
	return mergerequest.User{
		ID:        v.Get("id").Int(),
		Username:  v.Get("username").String(),
		Name:      v.Get("name").String(),
		AvatarURL: v.Get("avatar_url").String(),
	}
}

func parseUsers(v gjson.Result) []mergerequest.User {
	var users []mergerequest.User
	for _, u := range v.Array() {
		users = append(users, parseUser(u))
	}

	return users
}

func parseProject(v gjson.Result) *mergerequest.ProjectSummary {
	return &mergerequest.ProjectSummary{
		ID:                v.Get("id").Int(),
		Name:              v.Get("name").String(),
		PathWithNamespace: v.Get("path_with_namespace").String(),
		WebURL:            v.Get("web_url").String(),
	}
}
