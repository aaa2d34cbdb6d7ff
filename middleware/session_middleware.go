package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avalue/ci-relay/apperrors"
	"github.com/avalue/ci-relay/models"
	"github.com/avalue/ci-relay/repositories"
)

const sessionKey = "session.identity"

// AuthHeader is the designated bearer-credential header.
const AuthHeader = "Authorization"

// Session is a resolved request identity: the repo the bearer token maps to.
type Session struct {
	RepoID string
}

// UnknownTokenPolicy names the behavior for a well-formed token that
// resolves to no repo. Product intent is unconfirmed, so both behaviors
// exist and are selected at startup.
type UnknownTokenPolicy int

const (
	// UnknownTokenIgnore treats an unresolvable token like a missing
	// one: the request proceeds with an empty identity.
	UnknownTokenIgnore UnknownTokenPolicy = iota
	// UnknownTokenReject fails the request with NOT_FOUND.
	UnknownTokenReject
)

// SessionAuth resolves the bearer-credential header to a repo identity.
// A missing header is not an error: the request proceeds with an empty
// identity and handlers that require authentication check for it
// themselves. A malformed header fails the request immediately.
func SessionAuth(policy UnknownTokenPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(AuthHeader)
		if token == "" {
			attachEmptySession(c)
			c.Next()
			return
		}

		if !models.ValidToken(token) {
			abort(c, apperrors.CredentialParse("credential is not a repo token"))
			return
		}

		db, err := Database(c)
		if err != nil {
			abort(c, apperrors.From(err))
			return
		}

		repo, err := repositories.NewRepoRepository(db).FindByID(token)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if policy == UnknownTokenReject {
					abort(c, apperrors.NotFound("repo"))
					return
				}
				attachEmptySession(c)
				c.Next()
				return
			}
			abort(c, apperrors.Store(err))
			return
		}

		c.Set(sessionKey, &Session{RepoID: repo.ID})
		c.Next()
	}
}

// SessionFrom returns the identity resolved for this request, or nil for
// the empty identity.
func SessionFrom(c *gin.Context) *Session {
	value, exists := c.Get(sessionKey)
	if !exists {
		return nil
	}
	session, _ := value.(*Session)
	return session
}

// attachEmptySession marks the request as carrying an empty identity.
// Idempotent: it never overwrites an identity already attached.
func attachEmptySession(c *gin.Context) {
	if _, exists := c.Get(sessionKey); exists {
		return
	}
	c.Set(sessionKey, (*Session)(nil))
}

func abort(c *gin.Context, err *apperrors.Error) {
	c.AbortWithStatusJSON(err.Status(), err)
}
