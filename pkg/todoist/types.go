// Package todoist is a typed client for the Todoist REST v2 API, plus the
// sideband metadata encoding used to round-trip yarmtl fields the Todoist
// schema has no place for.
package todoist

// Task is the wire shape of a Todoist task. ID is empty until the service
// assigns one. Completion is not sent as a field; it is applied with the
// close/reopen endpoints.
type Task struct {
	ID          string   `json:"id,omitempty"`
	Content     string   `json:"content"`
	Description string   `json:"description,omitempty"`
	Due         *Due     `json:"due,omitempty"`
	DueDate     string   `json:"due_date,omitempty"` // request-only, YYYY-MM-DD
	Labels      []string `json:"labels,omitempty"`
	Priority    int      `json:"priority,omitempty"` // 1..4, 4 = most urgent
	IsCompleted bool     `json:"is_completed,omitempty"`
	ProjectID   string   `json:"project_id,omitempty"`
}

// Due is Todoist's structured due date.
type Due struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Datetime string `json:"datetime,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// Label is a Todoist label.
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Project is a Todoist project.
type Project struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}
