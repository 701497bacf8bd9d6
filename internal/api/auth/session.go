package auth

import (
	"net/http"

	"github.com/aimarketer/aimarketer/internal/api/models"
	"github.com/aimarketer/aimarketer/internal/config"
	"github.com/aimarketer/aimarketer/internal/database"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-contrib/sessions/memstore"
	"github.com/gin-gonic/gin"
	gsessions "github.com/gorilla/sessions"
)

const storeContextKey = "session_store"

const (
	sessionKeyUserID   = "user_id"
	sessionKeyUsername = "user_username"
	sessionKeyRole     = "user_role"
)

// NewStore builds the session store selected in the config.
// The memory store keeps session data on the server and only hands out an opaque id;
// the cookie store keeps it in a signed and encrypted cookie.
func NewStore(cfg *config.SessionConfig) sessions.Store {
	var store sessions.Store
	switch cfg.Store {
	case config.SessionStoreCookie:
		store = cookie.NewStore([]byte(cfg.Key))
	default:
		store = memstore.NewStore([]byte(cfg.Key))
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

type storeRef struct {
	store sessions.Store
	name  string
}

// Middleware returns the gin session middleware for the configured store.
func Middleware(cfg *config.SessionConfig) gin.HandlerFunc {
	store := NewStore(cfg)
	handler := sessions.Sessions(cfg.Name, store)
	return func(c *gin.Context) {
		c.Set(storeContextKey, storeRef{store: store, name: cfg.Name})
		handler(c)
	}
}

// CurrentUser returns the user stored in the session, or nil for anonymous visitors.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get("user"); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return userFromSession(sessions.Default(c))
}

func userFromSession(session sessions.Session) *models.User {
	username := getSessionString(session, sessionKeyUsername)
	if username == "" {
		return nil
	}
	return &models.User{
		ID:       getSessionUint(session, sessionKeyUserID),
		Username: username,
		Role:     database.Role(getSessionString(session, sessionKeyRole)),
	}
}

// saveUser copies the identity and role of user into a fresh session.
// Whatever the request's session held before is dropped and, for the memory
// store, the data is saved under a new id.
func saveUser(c *gin.Context, session sessions.Session, user *database.User) error {
	renew(c, session)
	session.Set(sessionKeyUserID, user.ID)
	session.Set(sessionKeyUsername, user.Username)
	session.Set(sessionKeyRole, string(user.Role))
	return session.Save()
}

// renew detaches session from its stored data: the underlying gorilla session
// gets an empty id and a new value map, so the next Save issues a new id and the
// old id keeps whatever it held.
func renew(c *gin.Context, session sessions.Session) {
	v, ok := c.Get(storeContextKey)
	if !ok {
		session.Clear()
		return
	}
	ref := v.(storeRef)
	// the registry hands back the session the middleware loads for this request
	gs, _ := gsessions.GetRegistry(c.Request).Get(ref.store, ref.name)
	if gs == nil {
		session.Clear()
		return
	}
	gs.ID = ""
	gs.Values = make(map[any]any)
}

// destroy removes all session data and expires the cookie.
func destroy(session sessions.Session) error {
	session.Clear()
	session.Options(sessions.Options{
		Path:   "/",
		MaxAge: -1,
	})
	return session.Save()
}

// Helper functions to safely get session values.
func getSessionString(session sessions.Session, key string) string {
	if val := session.Get(key); val != nil {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getSessionUint(session sessions.Session, key string) uint {
	if val := session.Get(key); val != nil {
		if id, ok := val.(uint); ok {
			return id
		}
	}
	return 0
}
