package auth

import (
	"errors"
	"net/http"

	"github.com/aimarketer/aimarketer/internal/config"
	"github.com/aimarketer/aimarketer/internal/database"
	"github.com/aimarketer/aimarketer/internal/password"
	"github.com/aimarketer/aimarketer/internal/render"
	"github.com/aimarketer/aimarketer/web/templates/pages"
	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// User facing messages of the login and registration forms.
const (
	MsgRegistered         = "Registration successful!"
	MsgRegisterFailed     = "Username taken or error occurred."
	MsgUserNotFound       = "User not found."
	MsgInvalidCredentials = "Invalid credentials."
	MsgLoginError         = "Something went wrong. Please try again."
)

// Provider authenticates users against the local credential store.
type Provider struct {
	db     database.DB
	hasher *password.Hasher
	cfg    *config.AuthConfig
}

// NewProvider creates a Provider. cfg may be nil, in which case defaults are used.
func NewProvider(db database.DB, cfg *config.AuthConfig) *Provider {
	if cfg == nil {
		cfg = &config.AuthConfig{BcryptCost: password.DefaultCost}
	}
	return &Provider{
		db:     db,
		hasher: password.New(cfg.BcryptCost),
		cfg:    cfg,
	}
}

// Register creates a user with the default role.
// Duplicate usernames and store failures produce the same response.
func (p *Provider) Register(c *gin.Context) {
	username := c.PostForm("username")
	plain := c.PostForm("password")

	fail := func() {
		render.HTML(c, http.StatusBadRequest, pages.Message(MsgRegisterFailed, true, "/register", "Try Again"))
	}

	if username == "" || plain == "" {
		fail()
		return
	}

	hash, err := p.hasher.Hash(plain)
	if err != nil {
		log.Error("Failed to hash password", "error", err)
		fail()
		return
	}

	if _, err := p.db.CreateUser(c.Request.Context(), username, hash, database.RoleUser); err != nil {
		if !errors.Is(err, database.ErrUsernameTaken) {
			log.Error("Failed to register user", "username", username, "error", err)
		}
		fail()
		return
	}

	log.Info("User registered", "username", username)
	render.HTML(c, http.StatusOK, pages.Message(MsgRegistered, false, "/login", "Go to Login"))
}

// Login verifies the credentials and stores username and role in the session.
// A failed attempt leaves the session untouched.
func (p *Provider) Login(c *gin.Context) {
	username := c.PostForm("username")
	plain := c.PostForm("password")

	invalid := func(msg string) {
		render.HTML(c, http.StatusUnauthorized, pages.Message(msg, true, "/login", "Try Again"))
	}

	user, err := p.db.GetUserByUsername(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			if p.cfg.DistinguishUnknownUser {
				invalid(MsgUserNotFound)
			} else {
				invalid(MsgInvalidCredentials)
			}
			return
		}
		log.Error("Failed to look up user", "error", err)
		render.HTML(c, http.StatusInternalServerError, pages.Message(MsgLoginError, true, "/login", "Try Again"))
		return
	}

	ok, err := p.hasher.Compare(user.PasswordHash, plain)
	if err != nil {
		log.Error("Failed to verify password", "username", username, "error", err)
		render.HTML(c, http.StatusInternalServerError, pages.Message(MsgLoginError, true, "/login", "Try Again"))
		return
	}
	if !ok {
		invalid(MsgInvalidCredentials)
		return
	}

	if err := saveUser(c, sessions.Default(c), user); err != nil {
		log.Error("Failed to save session", "error", err)
		render.HTML(c, http.StatusInternalServerError, pages.Message(MsgLoginError, true, "/login", "Try Again"))
		return
	}

	log.Info("User logged in", "username", user.Username, "role", user.Role)
	c.Redirect(http.StatusFound, "/")
}

// Logout destroys the session and redirects home, whether or not anyone was logged in.
func (p *Provider) Logout(c *gin.Context) {
	if err := destroy(sessions.Default(c)); err != nil {
		log.Error("Failed to destroy session", "error", err)
	}
	c.Redirect(http.StatusFound, "/")
}
