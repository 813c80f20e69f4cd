package journal

import "time"

// Run statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Run is one registration run recorded in the journal.
type Run struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Device     string    `gorm:"index" json:"device"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DryRun     bool      `json:"dry_run"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	Creates    int       `json:"creates"`
	Updates    int       `json:"updates"`
	Unchanged  int       `json:"unchanged"`
	Skips      int       `json:"skips"`
	Actions    []Action  `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"actions,omitempty"`
}

// Action is a single planned or executed mutation within a run.
type Action struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	RunID      string `gorm:"index;size:36" json:"-"`
	Collection string `json:"collection"`
	Kind       string `json:"kind"`
	Key        string `json:"key"`
	Reason     string `json:"reason"`
}
