package models

import "time"

// Job represents one deployment attempt belonging to a Repo. The id is
// caller supplied and unique only within a repo's history, so the row has
// a surrogate key and a composite index instead of a single primary key.
type Job struct {
	Seq         uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	ID          int       `json:"id" gorm:"column:id;not null;index:idx_jobs_repo_job"`
	Status      Status    `json:"status" gorm:"type:text;not null;index"`
	TriggeredBy *string   `json:"triggeredBy,omitempty" gorm:"default:null"`
	Description *string   `json:"description,omitempty" gorm:"default:null"`
	CallbackURL *string   `json:"callbackUrl,omitempty" gorm:"default:null"`
	RepoID      string    `json:"repoId" gorm:"type:text;not null;index:idx_jobs_repo_job"`
	StartedAt   time.Time `json:"startedAt" gorm:"not null"`
	// Elapsed is in whole seconds, computed once at the transition away
	// from RUNNING.
	Elapsed int64 `json:"elapsed" gorm:"not null;default:0"`
}

// ElapsedDuration returns the recorded elapsed time as a duration.
func (j Job) ElapsedDuration() time.Duration {
	return time.Duration(j.Elapsed) * time.Second
}
