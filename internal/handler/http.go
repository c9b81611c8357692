package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fitexport/internal/auth"
	"fitexport/internal/config"
	"fitexport/internal/database"
	"fitexport/internal/export"
	"fitexport/internal/fitbit"
)

// Exporter runs one batch export. *export.Runner satisfies it.
type Exporter interface {
	Run(ctx context.Context, startDate string, today time.Time) (*export.Report, error)
}

type Handler struct {
	db       database.TokenStore
	cfg      *config.Config
	auth     auth.Authenticator
	exporter Exporter
	log      *zap.SugaredLogger
	now      func() time.Time
}

func New(db database.TokenStore, cfg *config.Config, auth auth.Authenticator, exporter Exporter, log *zap.SugaredLogger) *Handler {
	return &Handler{db, cfg, auth, exporter, log, time.Now}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Authorize(c *gin.Context) {
	withProvider(c.Request)

	url, err := h.auth.BeginAuth(c.Writer, c.Request)
	if err != nil {
		h.log.Errorw("begin authorization", "error", err)
		c.String(http.StatusInternalServerError, "Could not start authorization.")
		return
	}

	c.Redirect(http.StatusFound, url)
}

// Callback is the OAuth redirect target. It persists the new user's refresh token.
func (h *Handler) Callback(c *gin.Context) {
	if c.Query("code") == "" {
		c.String(http.StatusBadRequest, "Missing authorization code. Go to /authorize first.")
		return
	}
	withProvider(c.Request)

	grant, err := auth.CompleteAuthorization(c.Writer, c.Request, h.auth, h.db)
	if err != nil {
		h.log.Errorw("complete authorization", "error", err)
		c.String(http.StatusInternalServerError, "Authorization failed.")
		return
	}

	h.log.Infow("user authorized", "user_id", grant.UserID)
	c.String(http.StatusOK, "Authorized Fitbit user %s. Their data will be included in the next export.", grant.UserID)
}

// WriteData runs a batch export synchronously and reports which users succeeded.
// The run outlives a client that disconnects.
func (h *Handler) WriteData(c *gin.Context) {
	rep, err := h.exporter.Run(context.WithoutCancel(c.Request.Context()), h.cfg.StartDate, h.now())
	switch {
	case errors.Is(err, export.ErrRunInProgress):
		c.String(http.StatusConflict, "An export is already running.")
	case err != nil:
		h.log.Errorw("batch export", "error", err)
		c.String(http.StatusInternalServerError, "Export failed.")
	default:
		c.JSON(http.StatusOK, rep)
	}
}

// withProvider tells gothic which provider handles the request.
func withProvider(r *http.Request) {
	q := r.URL.Query()
	q.Set("provider", fitbit.ProviderName)
	r.URL.RawQuery = q.Encode()
}
