package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/avalue/ci-relay/apperrors"
	"github.com/avalue/ci-relay/dto"
	"github.com/avalue/ci-relay/models"
	"github.com/avalue/ci-relay/repositories"
)

// StatusService mirrors repo-level status changes into the bound chat.
// Unlike UpdateJob this is plain read-update-send: the status write
// persists even when the send afterwards fails.
type StatusService struct {
	repos  *repositories.RepoRepository
	sender Sender
}

// NewStatusService creates a new status service instance
func NewStatusService(db *gorm.DB, sender Sender) *StatusService {
	return &StatusService{
		repos:  repositories.NewRepoRepository(db),
		sender: sender,
	}
}

// UpdateStatus records the new repo status and notifies the chat with the
// previous status available for the idle-vs-cancelled distinction.
func (s *StatusService) UpdateStatus(ctx context.Context, repoID string, query dto.StatusQuery) error {
	status, err := models.ParseStatus(query.Status)
	if err != nil {
		return apperrors.Validation(err.Error())
	}

	repo, err := s.repos.FindByID(repoID)
	if err != nil {
		return apperrors.Store(err)
	}
	previous := repo.Status

	if err := s.repos.UpdateStatus(repoID, status); err != nil {
		return apperrors.Store(err)
	}

	text := FormatNotification(Notification{
		RepoName:    repo.Name,
		Status:      status,
		Previous:    previous,
		Description: query.Description,
		URL:         query.URL,
		By:          query.By,
		ByName:      query.ByName,
	})
	if err := s.sender.Send(ctx, repo.ChatBinding, text); err != nil {
		return apperrors.Notify(err)
	}
	return nil
}
