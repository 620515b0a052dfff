// Package sync reconciles the local task list with Todoist. One pass runs
// five phases in a fixed order: fetch the remote state, load the local
// store, diff both against the sync index, apply the resulting actions
// sequentially, then persist whatever changed.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/uraniumcovid/yarmtl/pkg/index"
	"github.com/uraniumcovid/yarmtl/pkg/task"
	"github.com/uraniumcovid/yarmtl/pkg/todoist"
)

// completedWindowDays bounds how far back a completed, never-synced task
// may have been due and still be pushed. Anything older stays local.
const completedWindowDays = 30

// Config is everything an Engine needs; there is no global state.
type Config struct {
	TasksFile string
	IndexFile string
	Token     string
	// BaseURL overrides the Todoist endpoint; empty means production.
	BaseURL string
}

// Engine drives one reconciliation pass at a time. It is not safe for
// concurrent use: callers must serialize Sync invocations per store pair.
type Engine struct {
	client *todoist.Client
	idx    *index.SyncIndex
	cfg    Config

	local         []task.Task
	tasksModified bool
	projects      map[string]string // project name -> project ID
}

// New loads the sync index and builds an Engine. A corrupt index is a
// construction error; silently starting from an empty mapping would
// duplicate every previously synced task.
func New(cfg Config) (*Engine, error) {
	idx, err := index.Load(cfg.IndexFile)
	if err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = todoist.DefaultBaseURL
	}

	return &Engine{
		client:   todoist.NewClientWithBaseURL(cfg.Token, baseURL),
		idx:      idx,
		cfg:      cfg,
		projects: make(map[string]string),
	}, nil
}

// Sync runs one full reconciliation pass and returns what it did. When the
// pass is cut short by an auth or rate-limit error, the report covers the
// actions that were applied, everything applied so far stays persisted,
// and the error is returned alongside.
func (e *Engine) Sync(ctx context.Context) (*Report, error) {
	report := &Report{}

	// Fetch. Projects come first: the diff's field translation needs the
	// name -> ID table to resolve tags.
	remoteProjects, err := e.client.ListProjects(ctx)
	if err != nil {
		return report, fmt.Errorf("cannot list projects: %w", err)
	}
	e.projects = make(map[string]string, len(remoteProjects))
	for _, p := range remoteProjects {
		e.projects[p.Name] = p.ID
	}

	remoteTasks, err := e.client.ListTasks(ctx)
	if err != nil {
		return report, fmt.Errorf("cannot list tasks: %w", err)
	}

	// Load.
	e.local, err = task.Load(e.cfg.TasksFile)
	if err != nil {
		return report, err
	}
	e.tasksModified = false

	// Diff.
	actions := e.detectChanges(e.local, remoteTasks)

	// Apply. Sequential, never reordered. Item-scoped failures are logged
	// and skipped; auth and rate-limit failures stop the pass because no
	// further call can succeed right now.
	var passErr error
	for _, a := range actions {
		if err := e.applyAction(ctx, a, report); err != nil {
			if terminal(err) {
				passErr = err
				break
			}
			log.Printf("Warning: sync action skipped: %v", err)
		}
	}

	// Persist.
	if e.tasksModified {
		if err := task.Save(e.cfg.TasksFile, e.local); err != nil {
			return report, err
		}
	}
	e.idx.TouchLastSync()
	if err := e.idx.Save(); err != nil {
		return report, err
	}

	return report, passErr
}

// terminal reports whether an error ends the whole pass rather than one
// action.
func terminal(err error) bool {
	var authErr *todoist.AuthError
	var rateErr *todoist.RateLimitError
	return errors.As(err, &authErr) || errors.As(err, &rateErr)
}

// detectChanges walks local tasks first, then remote tasks, and emits the
// action list in that order. The local walk runs first on purpose: when
// both sides changed since the last sync, the local edit wins.
func (e *Engine) detectChanges(local []task.Task, remote []todoist.Task) []action {
	var actions []action

	localIDs := make(map[string]bool, len(local))
	for _, lt := range local {
		localIDs[lt.ID] = true
	}
	remoteIDs := make(map[string]bool, len(remote))
	sidebandIDs := make(map[string]bool)
	for _, rt := range remote {
		if rt.ID != "" {
			remoteIDs[rt.ID] = true
		}
		if meta := todoist.ParseMetadata(rt.Description); meta != nil {
			sidebandIDs[meta.ID] = true
		}
	}

	for _, lt := range local {
		todoistID, mapped := e.idx.TodoistID(lt.ID)
		switch {
		case mapped && remoteIDs[todoistID]:
			// Both sides exist; push only when the content fingerprint
			// moved since the last successful sync.
			fp := task.Fingerprint(lt)
			stored, ok := e.idx.Hash(lt.ID)
			if !ok || stored != fp {
				actions = append(actions, action{kind: actionUpdateRemote, local: lt})
			}
		case mapped:
			// The mapped remote task is gone. Remote deletions win; the
			// local copy is removed, never resurrected from a stale
			// mapping.
			actions = append(actions, action{kind: actionDeleteLocal, localID: lt.ID})
		default:
			if sidebandIDs[lt.ID] {
				// A remote task already carries this identity; the remote
				// walk re-adopts it instead of creating a duplicate.
				continue
			}
			if lt.Completed && staleCompleted(lt) {
				continue
			}
			actions = append(actions, action{kind: actionCreateRemote, local: lt})
		}
	}

	for _, rt := range remote {
		if rt.ID == "" {
			continue
		}
		if localID, mapped := e.idx.LocalID(rt.ID); mapped {
			// The pairing itself was handled in the local walk; all that
			// is left is a local deletion to mirror.
			if !localIDs[localID] {
				actions = append(actions, action{kind: actionDeleteRemote, remoteID: rt.ID})
			}
			continue
		}
		meta := todoist.ParseMetadata(rt.Description)
		if meta != nil && localIDs[meta.ID] {
			// Unmapped but carries a known local identity: the mapping
			// was lost (or never recorded) while both sides kept the
			// task. Re-adopt it as an update.
			actions = append(actions, action{kind: actionUpdateLocal, remoteID: rt.ID, remote: rt})
		} else {
			actions = append(actions, action{kind: actionCreateLocal, remote: rt})
		}
	}

	return actions
}

// staleCompleted reports whether a completed, never-synced task is too old
// to be worth pushing: no deadline at all, or a deadline more than the
// trailing window ago.
func staleCompleted(t task.Task) bool {
	if t.Deadline.IsZero() {
		return true
	}
	cutoff := task.DateOnly(time.Now()).AddDate(0, 0, -completedWindowDays)
	return t.Deadline.Before(cutoff)
}

func (e *Engine) applyAction(ctx context.Context, a action, report *Report) error {
	switch a.kind {
	case actionCreateRemote:
		return e.applyCreateRemote(ctx, a.local, report)
	case actionCreateLocal:
		return e.applyCreateLocal(a.remote, report)
	case actionUpdateRemote:
		return e.applyUpdateRemote(ctx, a.local, report)
	case actionUpdateLocal:
		return e.applyUpdateLocal(a.remoteID, a.remote, report)
	case actionDeleteRemote:
		return e.applyDeleteRemote(ctx, a.remoteID, report)
	case actionDeleteLocal:
		return e.applyDeleteLocal(a.localID, report)
	default:
		return fmt.Errorf("unknown sync action %d", a.kind)
	}
}

func (e *Engine) applyCreateRemote(ctx context.Context, lt task.Task, report *Report) error {
	if len(lt.Tags) > 0 {
		if _, err := e.getOrCreateProject(ctx, lt.Tags[0]); err != nil {
			return err
		}
	}

	created, err := e.client.CreateTask(ctx, e.convertLocalToRemote(lt))
	if err != nil {
		return err
	}
	if created.ID != "" {
		if lt.Completed {
			if err := e.client.CloseTask(ctx, created.ID); err != nil {
				if terminal(err) {
					return err
				}
				log.Printf("Warning: could not close created task %s: %v", created.ID, err)
			}
		}
		e.setMapping(lt, created.ID)
		if err := e.idx.Save(); err != nil {
			return err
		}
	}
	report.CreatedRemote++
	return nil
}

func (e *Engine) applyCreateLocal(rt todoist.Task, report *Report) error {
	lt := e.convertRemoteToLocal(rt)
	if rt.ID != "" {
		e.setMapping(lt, rt.ID)
		if err := e.idx.Save(); err != nil {
			return err
		}
	}
	e.local = append(e.local, lt)
	e.tasksModified = true
	report.CreatedLocal++
	return nil
}

func (e *Engine) applyUpdateRemote(ctx context.Context, lt task.Task, report *Report) error {
	todoistID, ok := e.idx.TodoistID(lt.ID)
	if !ok {
		return fmt.Errorf("no mapping for local task %s", lt.ID)
	}

	if len(lt.Tags) > 0 {
		if _, err := e.getOrCreateProject(ctx, lt.Tags[0]); err != nil {
			return err
		}
	}
	if _, err := e.client.UpdateTask(ctx, todoistID, e.convertLocalToRemote(lt)); err != nil {
		return err
	}

	// Completion travels via the close/reopen endpoints, never as a field.
	var completionErr error
	if lt.Completed {
		completionErr = e.client.CloseTask(ctx, todoistID)
	} else {
		completionErr = e.client.ReopenTask(ctx, todoistID)
	}
	if completionErr != nil {
		if terminal(completionErr) {
			return completionErr
		}
		log.Printf("Warning: could not set completion of task %s: %v", todoistID, completionErr)
	}

	e.setMapping(lt, todoistID)
	if err := e.idx.Save(); err != nil {
		return err
	}
	report.UpdatedRemote++
	return nil
}

func (e *Engine) applyUpdateLocal(todoistID string, rt todoist.Task, report *Report) error {
	lt := e.convertRemoteToLocal(rt)
	for i := range e.local {
		if e.local[i].ID == lt.ID {
			// Position in the tree is local-only state; keep it.
			lt.IndentLevel = e.local[i].IndentLevel
			lt.ParentID = e.local[i].ParentID
			e.local[i] = lt
			e.tasksModified = true
			break
		}
	}
	e.setMapping(lt, todoistID)
	if err := e.idx.Save(); err != nil {
		return err
	}
	report.UpdatedLocal++
	return nil
}

func (e *Engine) applyDeleteRemote(ctx context.Context, todoistID string, report *Report) error {
	if err := e.client.DeleteTask(ctx, todoistID); err != nil {
		var notFound *todoist.NotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
		// Already gone remotely; dropping the mapping is all that's left.
	}
	e.idx.RemoveByTodoistID(todoistID)
	if err := e.idx.Save(); err != nil {
		return err
	}
	report.DeletedRemote++
	return nil
}

func (e *Engine) applyDeleteLocal(localID string, report *Report) error {
	kept := e.local[:0]
	for _, lt := range e.local {
		if lt.ID != localID {
			kept = append(kept, lt)
		}
	}
	e.local = kept
	e.tasksModified = true

	e.idx.RemoveMapping(localID)
	if err := e.idx.Save(); err != nil {
		return err
	}
	report.DeletedLocal++
	return nil
}

// setMapping records a successful sync of lt against its remote ID.
func (e *Engine) setMapping(lt task.Task, todoistID string) {
	e.idx.SetMapping(lt.ID, index.Entry{
		TodoistID:    todoistID,
		LastModified: time.Now().UTC(),
		LastSyncHash: task.Fingerprint(lt),
	})
}

// getOrCreateProject resolves a project name to its ID, creating the
// project on first use and caching it for the rest of the pass. A
// non-terminal creation failure degrades to "no project" instead of
// failing the action.
func (e *Engine) getOrCreateProject(ctx context.Context, name string) (string, error) {
	if id, ok := e.projects[name]; ok {
		return id, nil
	}
	project, err := e.client.CreateProject(ctx, name)
	if err != nil {
		if terminal(err) {
			return "", err
		}
		log.Printf("Warning: could not create project %q: %v", name, err)
		return "", nil
	}
	e.projects[project.Name] = project.ID
	return project.ID, nil
}
