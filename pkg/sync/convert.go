package sync

import (
	"time"

	"github.com/uraniumcovid/yarmtl/pkg/task"
	"github.com/uraniumcovid/yarmtl/pkg/todoist"
)

// convertLocalToRemote builds the Todoist shape of a local task. The first
// tag becomes the project, remaining tags become labels. Fields Todoist
// has no slot for travel in the sideband metadata block.
func (e *Engine) convertLocalToRemote(lt task.Task) todoist.Task {
	var due *todoist.Due
	if !lt.Deadline.IsZero() {
		due = &todoist.Due{Date: lt.Deadline.Format(task.DateLayout)}
	}

	var projectID string
	var labels []string
	if len(lt.Tags) > 0 {
		projectID = e.projects[lt.Tags[0]]
		if len(lt.Tags) > 1 {
			labels = lt.Tags[1:]
		}
	}

	meta := todoist.Metadata{
		ID:         lt.ID,
		Deadline:   formatDate(lt.Deadline),
		Reminder:   formatDate(lt.Reminder),
		Notes:      lt.Notes,
		Importance: lt.Importance,
	}

	return todoist.Task{
		Content:     lt.Text,
		Description: meta.Encode(),
		Due:         due,
		DueDate:     formatDate(lt.Deadline),
		Labels:      labels,
		Priority:    importanceToPriority(lt.Importance),
		ProjectID:   projectID,
		// Completion is never sent as a field; close/reopen calls apply
		// it after the create or update.
	}
}

// convertRemoteToLocal builds the local shape of a Todoist task. The
// sideband metadata supplies identity and the fields Todoist cannot hold;
// a task without it was born in Todoist and gets a fresh identity.
func (e *Engine) convertRemoteToLocal(rt todoist.Task) task.Task {
	meta := todoist.ParseMetadata(rt.Description)

	id := ""
	if meta != nil {
		id = meta.ID
	}
	if id == "" {
		id = task.NewID()
	}

	// Todoist's own due date is authoritative; the sideband copy only
	// fills in when the due field was cleared remotely.
	var deadline time.Time
	if rt.Due != nil {
		deadline = parseDate(rt.Due.Date)
	}
	if deadline.IsZero() && meta != nil {
		deadline = parseDate(meta.Deadline)
	}

	var tags []string
	if rt.ProjectID != "" {
		if name, ok := e.projectName(rt.ProjectID); ok {
			tags = append(tags, name)
		}
	}
	tags = append(tags, rt.Labels...)

	var reminder time.Time
	notes := ""
	importance := 0
	if meta != nil {
		reminder = parseDate(meta.Reminder)
		notes = meta.Notes
		importance = meta.Importance
	}

	return task.Task{
		ID:         id,
		Text:       rt.Content,
		Deadline:   deadline,
		Tags:       tags,
		Reminder:   reminder,
		Importance: importance,
		Notes:      notes,
		Completed:  rt.IsCompleted,
	}
}

// projectName reverse-resolves a project ID through the pass's project
// cache.
func (e *Engine) projectName(projectID string) (string, bool) {
	for name, id := range e.projects {
		if id == projectID {
			return name, true
		}
	}
	return "", false
}

// importanceToPriority maps local importance (1 = most important .. 5) to
// Todoist priority (4 = most urgent .. 1). The table is a load-bearing
// business rule; both stores already contain data encoded with it.
func importanceToPriority(importance int) int {
	switch importance {
	case 0:
		return 0
	case 1:
		return 4
	case 2:
		return 3
	case 3:
		return 2
	default:
		return 1
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(task.DateLayout)
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	d, err := time.Parse(task.DateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return d
}
