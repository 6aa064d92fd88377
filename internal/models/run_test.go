package models

import (
	"testing"
	"time"
)

func TestRunClassify(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	tests := []struct {
		name string
		run  Run
		want Status
	}{
		{"fresh heartbeat", Run{Status: StatusRunning, Heartbeat: at(0)}, StatusRunning},
		{"just inside patience", Run{Status: StatusRunning, Heartbeat: at(119 * time.Second)}, StatusRunning},
		{"exactly at cutoff", Run{Status: StatusRunning, Heartbeat: at(120 * time.Second)}, StatusDied},
		{"stale heartbeat", Run{Status: StatusRunning, Heartbeat: at(300 * time.Second)}, StatusDied},
		{"no heartbeat", Run{Status: StatusRunning}, StatusRunning},
		{"completed with stale heartbeat", Run{Status: StatusCompleted, Heartbeat: at(time.Hour)}, StatusCompleted},
		{"queued", Run{Status: StatusQueued}, StatusQueued},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.run.Classify(now, DefaultPatience)
			if got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRunDocument(t *testing.T) {
	hb := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	doc := Run{
		ID:        "7",
		Status:    StatusRunning,
		Heartbeat: &hb,
		Config:    map[string]any{"lr": 0.1},
		Result:    0.9,
	}.Document()

	if doc[FieldID] != "7" {
		t.Errorf("expected id 7, got %v", doc[FieldID])
	}
	if doc[FieldStatus] != "RUNNING" {
		t.Errorf("expected status RUNNING, got %v", doc[FieldStatus])
	}
	if doc[FieldHeartbeat] != hb {
		t.Errorf("expected heartbeat %v, got %v", hb, doc[FieldHeartbeat])
	}

	empty := Run{Status: StatusQueued}.Document()
	for _, key := range []string{FieldID, FieldHeartbeat, FieldConfig, FieldResult} {
		if _, ok := empty[key]; ok {
			t.Errorf("expected %s to be omitted", key)
		}
	}
}
