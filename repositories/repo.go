package repositories

import (
	"github.com/avalue/ci-relay/models"
	"gorm.io/gorm"
)

// RepoRepository handles database operations for repos
type RepoRepository struct {
	db *gorm.DB
}

// NewRepoRepository creates a new repo repository instance
func NewRepoRepository(db *gorm.DB) *RepoRepository {
	return &RepoRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *RepoRepository) WithTx(tx *gorm.DB) *RepoRepository {
	return &RepoRepository{db: tx}
}

// Create inserts a new repo into the database
func (r *RepoRepository) Create(repo models.Repo) (models.Repo, error) {
	result := r.db.Create(&repo)
	return repo, result.Error
}

// FindByID retrieves a repo by its ID
func (r *RepoRepository) FindByID(id string) (models.Repo, error) {
	var repo models.Repo
	result := r.db.First(&repo, "id = ?", id)
	return repo, result.Error
}

// FindByIDs retrieves the repos matching the given id set, preserving
// nothing about order beyond insertion.
func (r *RepoRepository) FindByIDs(ids []string) ([]models.Repo, error) {
	var repos []models.Repo
	if len(ids) == 0 {
		return repos, nil
	}
	result := r.db.Where("id IN ?", ids).Find(&repos)
	return repos, result.Error
}

// UpdateName renames a repo
func (r *RepoRepository) UpdateName(id string, name string) error {
	result := r.db.Model(&models.Repo{}).
		Where("id = ?", id).
		Update("name", name)
	return result.Error
}

// UpdateStatus updates the last known deployment status of a repo
func (r *RepoRepository) UpdateStatus(id string, status models.Status) error {
	result := r.db.Model(&models.Repo{}).
		Where("id = ?", id).
		Update("status", status)
	return result.Error
}

// Delete removes a repo and, through the schema constraint, its jobs
func (r *RepoRepository) Delete(id string) error {
	result := r.db.Delete(&models.Repo{}, "id = ?", id)
	return result.Error
}

// DeleteByChatBinding removes every repo bound to the given chat
func (r *RepoRepository) DeleteByChatBinding(chatID int64) error {
	result := r.db.Delete(&models.Repo{}, "chat_binding = ?", chatID)
	return result.Error
}
