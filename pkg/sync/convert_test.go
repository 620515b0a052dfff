package sync

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uraniumcovid/yarmtl/pkg/task"
	"github.com/uraniumcovid/yarmtl/pkg/todoist"
)

func TestImportanceToPriority(t *testing.T) {
	cases := map[int]int{0: 0, 1: 4, 2: 3, 3: 2, 4: 1, 5: 1}
	for importance, want := range cases {
		if got := importanceToPriority(importance); got != want {
			t.Errorf("importanceToPriority(%d) = %d, want %d", importance, got, want)
		}
	}
}

func TestConvertLocalToRemote(t *testing.T) {
	e := &Engine{projects: map[string]string{"work": "p1"}}
	lt := task.Task{
		ID:         "aaaa1111",
		Text:       "prepare slides",
		Deadline:   time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC),
		Tags:       []string{"work", "urgent", "q1"},
		Reminder:   time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC),
		Importance: 1,
		Notes:      "use the new template",
	}

	rt := e.convertLocalToRemote(lt)

	assert.Equal(t, "prepare slides", rt.Content)
	assert.Equal(t, "p1", rt.ProjectID)
	assert.Equal(t, []string{"urgent", "q1"}, rt.Labels)
	assert.Equal(t, 4, rt.Priority)
	require.NotNil(t, rt.Due)
	assert.Equal(t, "2026-01-30", rt.Due.Date)

	meta := todoist.ParseMetadata(rt.Description)
	require.NotNil(t, meta)
	assert.Equal(t, "aaaa1111", meta.ID)
	assert.Equal(t, "2026-01-30", meta.Deadline)
	assert.Equal(t, "2026-01-28", meta.Reminder)
	assert.Equal(t, "use the new template", meta.Notes)
	assert.Equal(t, 1, meta.Importance)
}

func TestConvertRemoteToLocalPrefersDueOverSideband(t *testing.T) {
	e := &Engine{projects: map[string]string{"work": "p1"}}
	rt := todoist.Task{
		ID:          "r1",
		Content:     "prepare slides",
		Description: "!2026-01-30 [yarmtl:aaaa1111]",
		Due:         &todoist.Due{Date: "2026-02-15"},
	}

	lt := e.convertRemoteToLocal(rt)

	assert.Equal(t, "aaaa1111", lt.ID)
	assert.Equal(t, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), lt.Deadline,
		"the service's own due date is authoritative")
}

func TestConvertRemoteToLocalFallsBackToSidebandDeadline(t *testing.T) {
	e := &Engine{projects: map[string]string{}}
	rt := todoist.Task{
		ID:          "r1",
		Content:     "prepare slides",
		Description: "!2026-01-30 [yarmtl:aaaa1111]",
	}

	lt := e.convertRemoteToLocal(rt)
	assert.Equal(t, time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC), lt.Deadline)
}

func TestConvertRemoteToLocalGeneratesIdentity(t *testing.T) {
	e := &Engine{projects: map[string]string{}}
	lt := e.convertRemoteToLocal(todoist.Task{ID: "r1", Content: "born in todoist"})

	assert.Len(t, lt.ID, 8, "a task without sideband metadata gets a fresh identity")
}

func TestConvertRoundTrip(t *testing.T) {
	e := &Engine{projects: map[string]string{"work": "p1"}}
	want := task.Task{
		ID:         "aaaa1111",
		Text:       "prepare slides",
		Deadline:   time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC),
		Tags:       []string{"work", "urgent"},
		Reminder:   time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC),
		Importance: 2,
		Notes:      "use the new template",
	}

	rt := e.convertLocalToRemote(want)
	rt.ID = "r1"
	got := e.convertRemoteToLocal(rt)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Round trip changed the task (-want +got):\n%s", diff)
	}
}
