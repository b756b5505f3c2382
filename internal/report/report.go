// Package report defines the sync run report model — rows parsed/skipped,
// upsert/sweep counts, and per-phase duration for one run — and a
// Postgres-backed history store for it. An audit trail of past runs is the
// natural next thing an operator running quarterly syncs wants, so runs
// are persisted via gorm/Postgres in addition to being returned to the CLI.
package report

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PhaseResult captures one DeltaStrategy phase's outcome.
type PhaseResult struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ReportID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Phase     string    `gorm:"size:16;not null"` // D, M, U, S, F, and sub-phases like U:concepts, S:edges
	StartedAt time.Time
	EndedAt   time.Time
	Duration  time.Duration
	Committed int
	Failed    int
	Errors    datatypes.JSONSlice[string] `gorm:"type:jsonb"`
}

// Report is one full incremental-sync or full-import run.
type Report struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Command     string    `gorm:"size:32;not null"` // full-import | incremental-sync
	Version     string    `gorm:"size:16;index;not null"`
	PrevVersion string    `gorm:"size:16"`
	StartedAt   time.Time
	EndedAt     time.Time
	Success     bool

	RowsParsed  int
	RowsSkipped int

	ConceptsUpserted int
	CodesUpserted    int
	EdgesUpserted    int
	EdgesSwept       int
	CodesSwept       int
	ExplicitDeletes  int
	ExplicitMerges   int

	FatalError string `gorm:"type:text"`

	Phases []PhaseResult `gorm:"foreignKey:ReportID"`
}

// TableName pins the table name instead of relying on gorm's pluralization
// guess.
func (Report) TableName() string      { return "sync_reports" }
func (PhaseResult) TableName() string { return "sync_phase_results" }

// NewReport starts a report for a run about to begin.
func NewReport(command, version, prevVersion string) *Report {
	return &Report{
		ID:          uuid.New(),
		Command:     command,
		Version:     version,
		PrevVersion: prevVersion,
		StartedAt:   time.Now().UTC(),
	}
}

// RecordPhase appends a completed phase's outcome to the report.
func (r *Report) RecordPhase(phase string, started, ended time.Time, committed, failed int, errs []string) {
	r.Phases = append(r.Phases, PhaseResult{
		ID:        uuid.New(),
		ReportID:  r.ID,
		Phase:     phase,
		StartedAt: started,
		EndedAt:   ended,
		Duration:  ended.Sub(started),
		Committed: committed,
		Failed:    failed,
		Errors:    datatypes.NewJSONSlice(errs),
	})
}

// Finish marks the report complete.
func (r *Report) Finish(success bool, fatalErr error) {
	r.EndedAt = time.Now().UTC()
	r.Success = success
	if fatalErr != nil {
		r.FatalError = fatalErr.Error()
	}
}
