package services

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/avalue/ci-relay/apperrors"
	"github.com/avalue/ci-relay/dto"
	"github.com/avalue/ci-relay/models"
	"github.com/avalue/ci-relay/repositories"
)

// JobService implements the two webhook-triggered job operations. Both
// compose the resolved session identity with store mutation and a chat
// send; UpdateJob additionally wraps the whole sequence in a transaction
// so that the notification is never lost while the store believes the
// job already transitioned.
type JobService struct {
	db     *gorm.DB
	repos  *repositories.RepoRepository
	jobs   *repositories.JobRepository
	sender Sender
	now    func() time.Time
}

// NewJobService creates a new job service instance
func NewJobService(db *gorm.DB, sender Sender) *JobService {
	return &JobService{
		db:     db,
		repos:  repositories.NewRepoRepository(db),
		jobs:   repositories.NewJobRepository(db),
		sender: sender,
		now:    time.Now,
	}
}

// CreateJob inserts a RUNNING job for the authenticated repo and notifies
// its chat. The insert commits before the send: a send failure surfaces
// as NOTIFY_FAILURE but the job row stays persisted.
func (s *JobService) CreateJob(ctx context.Context, repoID string, req dto.CreateJobRequest) error {
	if req.JobID == nil {
		return apperrors.Validation("job_id is required")
	}

	repo, err := s.repos.FindByID(repoID)
	if err != nil {
		return apperrors.Store(err)
	}

	job := models.Job{
		ID:          *req.JobID,
		Status:      models.StatusRunning,
		TriggeredBy: optional(req.ByName),
		Description: optional(req.Description),
		CallbackURL: optional(req.URL),
		RepoID:      repo.ID,
		StartedAt:   s.now(),
	}
	if _, err := s.jobs.Create(job); err != nil {
		return apperrors.Store(err)
	}

	text := FormatNotification(Notification{
		RepoName:    repo.Name,
		Status:      models.StatusRunning,
		Previous:    repo.Status,
		Description: req.Description,
		URL:         req.URL,
		By:          req.By,
		ByName:      req.ByName,
	})
	if err := s.sender.Send(ctx, repo.ChatBinding, text); err != nil {
		return apperrors.Notify(err)
	}
	return nil
}

// UpdateJob transitions the running job with the given id away from
// RUNNING, computing elapsed from its start time. The ordering is
// mutate, then notify, then commit: a failed send rolls the transaction
// back, the job stays RUNNING, and the caller can retry with the same
// inputs for a single committed transition.
func (s *JobService) UpdateJob(ctx context.Context, repoID string, req dto.UpdateJobRequest) error {
	if req.JobID == nil {
		return apperrors.Validation("job_id is required")
	}
	jobID := *req.JobID

	status, err := models.ParseJobStatus(req.Status)
	if err != nil {
		return apperrors.Validation(err.Error())
	}
	if status == models.StatusRunning {
		return apperrors.Validation("a job cannot transition back to running")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo, err := s.repos.WithTx(tx).FindByID(repoID)
		if err != nil {
			return apperrors.Store(err)
		}
		job, err := s.jobs.WithTx(tx).FindRunning(repoID, jobID)
		if err != nil {
			return apperrors.Store(err)
		}

		elapsed := s.now().Sub(job.StartedAt)
		if err := s.jobs.WithTx(tx).Transition(repoID, jobID, status, int64(elapsed.Seconds())); err != nil {
			return apperrors.Store(err)
		}

		byName := ""
		if job.TriggeredBy != nil {
			byName = *job.TriggeredBy
		}
		url := ""
		if job.CallbackURL != nil {
			url = *job.CallbackURL
		}
		text := FormatNotification(Notification{
			RepoName:    repo.Name,
			Status:      status,
			Previous:    models.StatusRunning,
			Description: req.Description,
			URL:         url,
			By:          req.By,
			ByName:      byName,
			Elapsed:     &elapsed,
		})
		if err := s.sender.Send(ctx, repo.ChatBinding, text); err != nil {
			return apperrors.Notify(err)
		}
		return nil
	})
	if err != nil {
		log.Printf("update job %d for repo %s failed: %v", jobID, repoID, err)
		return apperrors.From(err)
	}
	return nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
