package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	v1 "github.com/avalue/ci-relay/api/v1"
	"github.com/avalue/ci-relay/middleware"
	"github.com/avalue/ci-relay/services"
)

// Setup registers the webhook surface. The pipeline is an explicit chain
// of stages: resource propagation first, then session resolution, then
// the handlers.
func Setup(router *gin.Engine, db *gorm.DB, sender services.Sender, policy middleware.UnknownTokenPolicy) {
	router.Use(middleware.Resources(db, sender))
	router.Use(middleware.SessionAuth(policy))

	router.GET("/", v1.Health)
	router.PUT("/status", v1.UpdateStatus)
	router.POST("/job", v1.CreateJob)
	router.PUT("/job", v1.UpdateJob)
}
