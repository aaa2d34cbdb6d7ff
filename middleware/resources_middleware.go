package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avalue/ci-relay/apperrors"
	"github.com/avalue/ci-relay/services"
)

const (
	dbKey     = "resources.db"
	senderKey = "resources.sender"
)

// Resources attaches the shared long-lived handles (store connection,
// chat client) to each request before the other stages run. Both handles
// are thread-safe and shared; the middleware holds no other state. A
// missing handle at read time is a wiring defect, not a request error.
func Resources(db *gorm.DB, sender services.Sender) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(dbKey, db)
		c.Set(senderKey, sender)
		c.Next()
	}
}

// Database returns the store handle attached by Resources.
func Database(c *gin.Context) (*gorm.DB, error) {
	value, exists := c.Get(dbKey)
	if !exists {
		return nil, apperrors.Configuration("database handle")
	}
	db, ok := value.(*gorm.DB)
	if !ok {
		return nil, apperrors.Configuration("database handle")
	}
	return db, nil
}

// ChatSender returns the chat client attached by Resources.
func ChatSender(c *gin.Context) (services.Sender, error) {
	value, exists := c.Get(senderKey)
	if !exists {
		return nil, apperrors.Configuration("chat sender")
	}
	sender, ok := value.(services.Sender)
	if !ok {
		return nil, apperrors.Configuration("chat sender")
	}
	return sender, nil
}
