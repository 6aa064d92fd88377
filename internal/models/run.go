// Package models defines data structures for experiment run records.
package models

import "time"

// Status is the lifecycle state of a run as stored by the experiment tracker.
type Status string

// Run statuses. DIED is never stored; it is derived from a stale heartbeat on
// a RUNNING record. TOTAL is a pseudo-status counting every record.
const (
	StatusQueued      Status = "QUEUED"
	StatusRunning     Status = "RUNNING"
	StatusDied        Status = "DIED"
	StatusTimeout     Status = "TIMEOUT"
	StatusInterrupted Status = "INTERRUPTED"
	StatusFailed      Status = "FAILED"
	StatusCompleted   Status = "COMPLETED"
	StatusTotal       Status = "TOTAL"
)

// Statuses lists every status in display order.
var Statuses = []Status{
	StatusQueued,
	StatusRunning,
	StatusDied,
	StatusTimeout,
	StatusInterrupted,
	StatusFailed,
	StatusCompleted,
	StatusTotal,
}

// DefaultPatience is how old a heartbeat may get before a RUNNING record is
// considered dead.
const DefaultPatience = 120 * time.Second

// Document field names written by the tracker.
const (
	FieldID        = "_id"
	FieldStatus    = "status"
	FieldHeartbeat = "heartbeat"
	FieldConfig    = "config"
	FieldResult    = "result"
)

// Run is a single tracked execution of an experiment.
type Run struct {
	ID        string         `json:"_id" bson:"_id"`
	Status    Status         `json:"status" bson:"status"`
	Heartbeat *time.Time     `json:"heartbeat,omitempty" bson:"heartbeat,omitempty"`
	Config    map[string]any `json:"config,omitempty" bson:"config,omitempty"`
	Result    any            `json:"result,omitempty" bson:"result,omitempty"`
}

// Classify returns the effective status of the run at now.
// A RUNNING run whose heartbeat is not newer than now-patience is DIED.
// A RUNNING run without any heartbeat keeps its stored status.
func (r Run) Classify(now time.Time, patience time.Duration) Status {
	if r.Status != StatusRunning || r.Heartbeat == nil {
		return r.Status
	}
	if r.Heartbeat.After(now.Add(-patience)) {
		return StatusRunning
	}
	return StatusDied
}

// Document returns the run as a generic document, the shape backends store.
func (r Run) Document() map[string]any {
	doc := map[string]any{
		FieldStatus: string(r.Status),
	}
	if r.ID != "" {
		doc[FieldID] = r.ID
	}
	if r.Heartbeat != nil {
		doc[FieldHeartbeat] = *r.Heartbeat
	}
	if r.Config != nil {
		doc[FieldConfig] = r.Config
	}
	if r.Result != nil {
		doc[FieldResult] = r.Result
	}
	return doc
}
