package models

import (
	"strings"

	"github.com/google/uuid"
)

// Repo represents a deployable unit and its chat binding. The ID doubles
// as the bearer token handed to the CI pipeline: a random 128-bit value
// rendered as 32 hex characters, immutable once created.
type Repo struct {
	ID          string `json:"id" gorm:"primaryKey;type:text"`
	Name        string `json:"name" gorm:"not null"`
	Status      Status `json:"status" gorm:"type:text;not null"`
	ChatBinding int64  `json:"chatBinding" gorm:"not null;index"`

	// Relations
	Jobs []Job `json:"jobs,omitempty" gorm:"foreignKey:RepoID;constraint:OnDelete:CASCADE"`
}

// NewRepoToken generates a fresh repo id / bearer token.
func NewRepoToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// TokenLength is the length of a rendered repo token.
const TokenLength = 32

// ValidToken reports whether value has the shape of a repo token:
// exactly 32 lowercase hex characters.
func ValidToken(value string) bool {
	if len(value) != TokenLength {
		return false
	}
	for _, c := range value {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
