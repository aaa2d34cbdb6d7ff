package repositories

import (
	"time"

	"github.com/avalue/ci-relay/models"
	"gorm.io/gorm"
)

// JobRepository handles database operations for jobs
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository instance
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *JobRepository) WithTx(tx *gorm.DB) *JobRepository {
	return &JobRepository{db: tx}
}

// Create inserts a new job into the database
func (r *JobRepository) Create(job models.Job) (models.Job, error) {
	result := r.db.Create(&job)
	return job, result.Error
}

// FindRunning retrieves the running job with the given caller-supplied id
// for a repo. The job id is part of the predicate so that two concurrent
// running jobs never make the selection ambiguous.
func (r *JobRepository) FindRunning(repoID string, jobID int) (models.Job, error) {
	var job models.Job
	result := r.db.Where("repo_id = ? AND id = ? AND status = ?",
		repoID, jobID, models.StatusRunning).First(&job)
	return job, result.Error
}

// Transition updates the status and elapsed seconds of a job row.
func (r *JobRepository) Transition(repoID string, jobID int, status models.Status, elapsed int64) error {
	result := r.db.Model(&models.Job{}).
		Where("repo_id = ? AND id = ? AND status = ?", repoID, jobID, models.StatusRunning).
		Updates(map[string]interface{}{
			"status":  status,
			"elapsed": elapsed,
		})
	return result.Error
}

// FindByRepoSince retrieves jobs for a repo started at or after the cutoff
func (r *JobRepository) FindByRepoSince(repoID string, since time.Time) ([]models.Job, error) {
	var jobs []models.Job
	result := r.db.Where("repo_id = ? AND started_at >= ?", repoID, since).
		Order("started_at DESC").Find(&jobs)
	return jobs, result.Error
}

// FindByReposSince retrieves jobs across a repo set started at or after the cutoff
func (r *JobRepository) FindByReposSince(repoIDs []string, since time.Time) ([]models.Job, error) {
	var jobs []models.Job
	if len(repoIDs) == 0 {
		return jobs, nil
	}
	result := r.db.Where("repo_id IN ? AND started_at >= ?", repoIDs, since).
		Order("started_at DESC").Find(&jobs)
	return jobs, result.Error
}

// FindLatest retrieves the most recently started job for a repo
func (r *JobRepository) FindLatest(repoID string) (models.Job, error) {
	var job models.Job
	result := r.db.Where("repo_id = ?", repoID).
		Order("started_at DESC").First(&job)
	return job, result.Error
}

// FindRunningByRepo retrieves all currently running jobs for a repo
func (r *JobRepository) FindRunningByRepo(repoID string) ([]models.Job, error) {
	var jobs []models.Job
	result := r.db.Where("repo_id = ? AND status = ?", repoID, models.StatusRunning).
		Order("started_at DESC").Find(&jobs)
	return jobs, result.Error
}
