package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avalue/ci-relay/apperrors"
	"github.com/avalue/ci-relay/dto"
	"github.com/avalue/ci-relay/middleware"
	"github.com/avalue/ci-relay/services"
)

// UpdateStatus handles PUT /status: record the repo's new deployment
// status and mirror it into the bound chat.
func UpdateStatus(c *gin.Context) {
	session := middleware.SessionFrom(c)
	if session == nil {
		respondError(c, apperrors.Unauthenticated())
		return
	}

	var query dto.StatusQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, apperrors.Validation("invalid query: "+err.Error()))
		return
	}

	db, err := middleware.Database(c)
	if err != nil {
		respondError(c, apperrors.From(err))
		return
	}
	sender, err := middleware.ChatSender(c)
	if err != nil {
		respondError(c, apperrors.From(err))
		return
	}

	service := services.NewStatusService(db, sender)
	if err := service.UpdateStatus(c.Request.Context(), session.RepoID, query); err != nil {
		respondError(c, apperrors.From(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
