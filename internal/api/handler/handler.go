package handler

import (
	"bytes"
	"net/http"

	"github.com/aimarketer/aimarketer/internal/api/auth"
	"github.com/aimarketer/aimarketer/internal/database"
	"github.com/aimarketer/aimarketer/internal/gravatar"
	"github.com/aimarketer/aimarketer/internal/render"
	"github.com/aimarketer/aimarketer/web/templates/pages"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// User facing messages of the feedback form and summary.
const (
	MsgFieldsRequired  = "All fields are required."
	MsgFeedbackSaved   = "Thank you for your feedback!"
	MsgFeedbackFailed  = "An error occurred while saving your feedback."
	MsgSummaryFailed   = "Error retrieving feedback"
	MsgPageUnavailable = "Page unavailable"
)

// FeedbackNotifier is told about every stored feedback submission.
type FeedbackNotifier interface {
	NotifyFeedback(feedback database.Feedback) error
}

type Handler struct {
	db       database.DB
	renderer *render.Renderer
	notifier FeedbackNotifier
	avatars  *gravatar.Resolver
}

// New creates a Handler. notifier and avatars may be nil.
func New(db database.DB, renderer *render.Renderer, notifier FeedbackNotifier, avatars *gravatar.Resolver) *Handler {
	return &Handler{
		db:       db,
		renderer: renderer,
		notifier: notifier,
		avatars:  avatars,
	}
}

// Page serves the named static page with the navigation for the current session.
func (h *Handler) Page(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var buf bytes.Buffer
		if err := h.renderer.Page(c.Request.Context(), &buf, name, auth.CurrentUser(c)); err != nil {
			log.Error("Failed to render page", "page", name, "error", err)
			c.String(http.StatusInternalServerError, MsgPageUnavailable)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
	}
}

// SubmitFeedback stores a feedback submission. All four fields are required;
// their content is stored as given.
func (h *Handler) SubmitFeedback(c *gin.Context) {
	feedback := database.Feedback{
		Name:  c.PostForm("name"),
		Email: c.PostForm("email"),
		Phone: c.PostForm("phone"),
		Query: c.PostForm("query"),
	}

	if lo.Contains([]string{feedback.Name, feedback.Email, feedback.Phone, feedback.Query}, "") {
		render.HTML(c, http.StatusBadRequest, pages.Message(MsgFieldsRequired, true, "/feedback", "Go back"))
		return
	}

	if err := h.db.CreateFeedback(c.Request.Context(), &feedback); err != nil {
		log.Error("Failed to save feedback", "error", err)
		render.HTML(c, http.StatusInternalServerError, pages.Message(MsgFeedbackFailed, true, "/feedback", "Go back"))
		return
	}

	if h.notifier != nil {
		if err := h.notifier.NotifyFeedback(feedback); err != nil {
			log.Error("Failed to send feedback notification", "feedback_id", feedback.ID, "error", err)
		}
	}

	render.HTML(c, http.StatusOK, pages.Message(MsgFeedbackSaved, false, "/", "Return Home"))
}

// FeedbackSummary lists all feedback submissions. Access is checked by auth.RequireAdmin.
func (h *Handler) FeedbackSummary(c *gin.Context) {
	items, err := h.db.GetAllFeedback(c.Request.Context())
	if err != nil {
		log.Error("Failed to get feedback", "error", err)
		c.String(http.StatusInternalServerError, MsgSummaryFailed)
		return
	}

	render.HTML(c, http.StatusOK, pages.FeedbackSummary(items, h.avatars.URL))
}

// Healthz reports liveness. It touches neither the database nor the session.
func (h *Handler) Healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
