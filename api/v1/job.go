package v1

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avalue/ci-relay/apperrors"
	"github.com/avalue/ci-relay/dto"
	"github.com/avalue/ci-relay/middleware"
	"github.com/avalue/ci-relay/services"
)

// CreateJob handles POST /job: insert a running job for the
// authenticated repo and announce it in the bound chat.
func CreateJob(c *gin.Context) {
	session := middleware.SessionFrom(c)
	if session == nil {
		respondError(c, apperrors.Unauthenticated())
		return
	}

	var body dto.CreateJobRequest
	if err := bindStrictJSON(c, &body); err != nil {
		respondError(c, apperrors.Validation("invalid request body: "+err.Error()))
		return
	}

	service, err := jobService(c)
	if err != nil {
		respondError(c, apperrors.From(err))
		return
	}

	if err := service.CreateJob(c.Request.Context(), session.RepoID, body); err != nil {
		respondError(c, apperrors.From(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// UpdateJob handles PUT /job: transition the running job away from
// RUNNING with the mutate-notify-commit ordering.
func UpdateJob(c *gin.Context) {
	session := middleware.SessionFrom(c)
	if session == nil {
		respondError(c, apperrors.Unauthenticated())
		return
	}

	var body dto.UpdateJobRequest
	if err := bindStrictJSON(c, &body); err != nil {
		respondError(c, apperrors.Validation("invalid request body: "+err.Error()))
		return
	}

	service, err := jobService(c)
	if err != nil {
		respondError(c, apperrors.From(err))
		return
	}

	if err := service.UpdateJob(c.Request.Context(), session.RepoID, body); err != nil {
		respondError(c, apperrors.From(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func jobService(c *gin.Context) (*services.JobService, error) {
	db, err := middleware.Database(c)
	if err != nil {
		return nil, err
	}
	sender, err := middleware.ChatSender(c)
	if err != nil {
		return nil, err
	}
	return services.NewJobService(db, sender), nil
}

// bindStrictJSON decodes the request body rejecting unknown fields,
// which gin's binder does not.
func bindStrictJSON(c *gin.Context, dst interface{}) error {
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func respondError(c *gin.Context, err *apperrors.Error) {
	c.JSON(err.Status(), err)
}
