package entity

import (
	"time"

	"github.com/google/uuid"
)

const ActionSendMail = "send_mail"

// RunRowStatus is the per-row status tracked on an ActionRun. It is kept
// apart from RowStatus on purpose: the workflow engine reports lowercase
// values and rows show capitalised ones.
type RunRowStatus string

const (
	RunRowPending   RunRowStatus = "pending"
	RunRowCompleted RunRowStatus = "completed"
	RunRowFailed    RunRowStatus = "failed"
)

func (s RunRowStatus) Terminal() bool {
	return s == RunRowCompleted || s == RunRowFailed
}

// RowStatusFor maps an engine-reported status onto the row vocabulary.
func RowStatusFor(s RunRowStatus) (RowStatus, bool) {
	switch s {
	case RunRowCompleted:
		return RowStatusCompleted, true
	case RunRowFailed:
		return RowStatusFailed, true
	case RunRowPending:
		return RowStatusPending, true
	}
	return "", false
}

// RunState is the lifecycle of the job as a whole.
type RunState string

const (
	RunStateCreated        RunState = "created"
	RunStateDispatched     RunState = "dispatched"
	RunStateDispatchFailed RunState = "dispatch_failed"
	RunStateCompleted      RunState = "completed"
)

// runTransitions lists, per target state, the states a run may leave to
// reach it. A callback can finish a run before the dispatch call returns,
// so completed is reachable from created. Nothing leaves completed.
var runTransitions = map[RunState][]RunState{
	RunStateDispatched:     {RunStateCreated},
	RunStateDispatchFailed: {RunStateCreated},
	RunStateCompleted:      {RunStateCreated, RunStateDispatched, RunStateDispatchFailed},
}

// PriorStates returns the states from which a run may move to next.
func PriorStates(next RunState) []RunState {
	return runTransitions[next]
}

// CanMoveTo reports whether a run in state s may move to next.
func (s RunState) CanMoveTo(next RunState) bool {
	for _, from := range runTransitions[next] {
		if from == s {
			return true
		}
	}
	return false
}

type ActionRun struct {
	ID            string                  `json:"id"`
	SheetID       string                  `json:"sheetId"`
	UserID        string                  `json:"userId"`
	Action        string                  `json:"action"`
	RowIDs        []string                `json:"rowIds"`
	Statuses      map[string]RunRowStatus `json:"statuses"`
	CallbackToken string                  `json:"-"`
	State         RunState                `json:"state"`
	DispatchError *string                 `json:"dispatchError,omitempty"`
	CreatedAt     time.Time               `json:"createdAt"`
	UpdatedAt     time.Time               `json:"updatedAt"`
}

// NewActionRun creates a run whose statuses map has exactly rowIDs as keys,
// all pending.
func NewActionRun(sheetID, userID, action string, rowIDs []string, token string) *ActionRun {
	statuses := make(map[string]RunRowStatus, len(rowIDs))
	for _, id := range rowIDs {
		statuses[id] = RunRowPending
	}
	now := time.Now().UTC()
	return &ActionRun{
		ID:            uuid.New().String(),
		SheetID:       sheetID,
		UserID:        userID,
		Action:        action,
		RowIDs:        append([]string(nil), rowIDs...),
		Statuses:      statuses,
		CallbackToken: token,
		State:         RunStateCreated,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (r *ActionRun) HasRow(rowID string) bool {
	_, ok := r.Statuses[rowID]
	return ok
}

// AllDone reports whether every target row reached a terminal status.
func (r *ActionRun) AllDone() bool {
	for _, s := range r.Statuses {
		if !s.Terminal() {
			return false
		}
	}
	return len(r.Statuses) > 0
}

// Counts returns how many rows are in each run status.
func (r *ActionRun) Counts() map[RunRowStatus]int {
	out := map[RunRowStatus]int{RunRowPending: 0, RunRowCompleted: 0, RunRowFailed: 0}
	for _, s := range r.Statuses {
		out[s]++
	}
	return out
}
