package sync

import (
	"fmt"

	"github.com/uraniumcovid/yarmtl/pkg/task"
	"github.com/uraniumcovid/yarmtl/pkg/todoist"
)

type actionKind int

const (
	actionCreateRemote actionKind = iota
	actionCreateLocal
	actionUpdateRemote
	actionUpdateLocal
	actionDeleteRemote
	actionDeleteLocal
)

// action is one pending mutation produced by the diff phase. Which payload
// fields are set depends on the kind: pushes carry the local task, pulls
// carry the remote task, deletions carry only the doomed side's ID.
type action struct {
	kind     actionKind
	local    task.Task
	remote   todoist.Task
	localID  string
	remoteID string
}

// Report counts applied actions per direction over one pass.
type Report struct {
	CreatedRemote int
	CreatedLocal  int
	UpdatedRemote int
	UpdatedLocal  int
	DeletedRemote int
	DeletedLocal  int
}

// Total returns the number of applied actions.
func (r Report) Total() int {
	return r.CreatedRemote + r.CreatedLocal + r.UpdatedRemote +
		r.UpdatedLocal + r.DeletedRemote + r.DeletedLocal
}

// Summary renders the one-line result shown after a pass: pushed, pulled,
// deleted.
func (r Report) Summary() string {
	return fmt.Sprintf("↑%d ↓%d ✗%d",
		r.CreatedRemote+r.UpdatedRemote,
		r.CreatedLocal+r.UpdatedLocal,
		r.DeletedRemote+r.DeletedLocal)
}
