package notify

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"business-console/internal/common/logger"
)

const (
	CookieName = "console_session"

	flasherKey = "notify.flasher"
)

type flasher struct {
	store   Store
	logger  logger.Logger
	session string
}

// Middleware assigns each browser a session id cookie and makes Flash and
// Pending available to handlers.
func Middleware(store Store, log logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return func(c *gin.Context) {
		session, err := c.Cookie(CookieName)
		if err != nil || uuid.Validate(session) != nil {
			session = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CookieName, session, 0, "/", "", false, true)
		}
		c.Set(flasherKey, &flasher{store: store, logger: log, session: session})
		c.Next()
	}
}

// Flash queues notifications for the next page this browser renders.
func Flash(c *gin.Context, notes ...Notification) {
	f, ok := current(c)
	if !ok {
		return
	}
	for _, n := range notes {
		if err := f.store.Push(c.Request.Context(), f.session, n); err != nil {
			f.logger.Warn("Failed to queue notification", map[string]interface{}{
				"error":   err.Error(),
				"message": n.Message,
			})
		}
	}
}

// Pending drains the queued notifications for rendering.
func Pending(c *gin.Context) []Notification {
	f, ok := current(c)
	if !ok {
		return nil
	}
	notes, err := f.store.Drain(c.Request.Context(), f.session)
	if err != nil {
		f.logger.Warn("Failed to read notifications", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return notes
}

func current(c *gin.Context) (*flasher, bool) {
	v, ok := c.Get(flasherKey)
	if !ok {
		return nil, false
	}
	f, ok := v.(*flasher)
	return f, ok
}
