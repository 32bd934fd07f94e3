package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tazhibayda/tasks-service/internal/billing"
	"github.com/tazhibayda/tasks-service/internal/config"
	"github.com/tazhibayda/tasks-service/internal/domain"
	"github.com/tazhibayda/tasks-service/internal/identity"
	"github.com/tazhibayda/tasks-service/internal/log"
	"github.com/tazhibayda/tasks-service/internal/queue"
	"github.com/tazhibayda/tasks-service/internal/repo"
)

const (
	sessionCookieName = "session"
	eventsExchange    = "app.events"
)

// Narrow per-entity repository surfaces so storage can be swapped or faked
// without touching handler logic. *repo.Store implements all of them.

type TaskRepository interface {
	ListTasks(ctx context.Context, module, section string) ([]map[string]any, error)
	FindTaskByTaskID(ctx context.Context, taskID string) (map[string]any, error)
}

type UserTaskRepository interface {
	GetUserTask(ctx context.Context, uid, taskID string) (map[string]any, error)
	DeleteUserTask(ctx context.Context, uid, taskID string) (bool, error)
}

type ProfileRepository interface {
	GetProfile(ctx context.Context, uid string) (*domain.Profile, error)
	UpsertProfile(ctx context.Context, p domain.Profile) error
	SetStripeCustomerID(ctx context.Context, uid, customerID string) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Tasks     TaskRepository
	UserTasks UserTaskRepository
	Profiles  ProfileRepository
	DB        Pinger
	Identity  identity.Verifier
	Billing   billing.Client
	Events    queue.Publisher
	Redis     *repo.Redis

	RateLimitPerMin int
	SessionTTL      time.Duration
	AppBaseURL      string
	SecureCookies   bool
	PublishableKey  string
	PricingTableID  string
}

func NewHandler(store *repo.Store, idp identity.Verifier, bill billing.Client, pub queue.Publisher, rds *repo.Redis, cfg config.Config) *Handler {
	return &Handler{
		Tasks:     store,
		UserTasks: store,
		Profiles:  store,
		DB:        store,
		Identity:  idp,
		Billing:   bill,
		Events:    pub,
		Redis:     rds,

		RateLimitPerMin: cfg.RateLimitPerMin,
		SessionTTL:      time.Duration(cfg.SessionTTLDays) * 24 * time.Hour,
		AppBaseURL:      cfg.AppBaseURL,
		SecureCookies:   cfg.Production(),
		PublishableKey:  cfg.StripePublishableKey,
		PricingTableID:  cfg.StripePricingTableID,
	}
}

// currentUser resolves the caller from the session cookie. Absent cookie →
// nil without any external call; failed verification → nil, never an error.
// Provider claims win for identity fields; the profile merge is best-effort
// enrichment only — ensureCustomer re-reads the billing linkage itself, so
// a failed read here cannot pass for an unlinked user.
func (h *Handler) currentUser(c *gin.Context) *domain.CurrentUser {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie == "" {
		return nil
	}
	ctx := c.Request.Context()
	claims, err := h.Identity.VerifySessionCookie(ctx, cookie)
	if err != nil {
		return nil
	}
	u := &domain.CurrentUser{UID: claims.UID, Email: claims.Email, PhotoURL: claims.Picture}
	if p, err := h.Profiles.GetProfile(ctx, claims.UID); err == nil && p != nil {
		u.StripeCustomerID = p.StripeCustomerID
		if u.Email == "" {
			u.Email = p.Email
		}
		if u.PhotoURL == "" {
			u.PhotoURL = p.PhotoURL
		}
	}
	return u
}

type issueSessionReq struct {
	IDToken string `json:"idToken"`
}

// IssueSession godoc
// @Summary Exchange a provider ID token for a session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body issueSessionReq true "idToken"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/auth/session [post]
func (h *Handler) IssueSession(c *gin.Context) {
	var in issueSessionReq
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.IDToken) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "idToken required"})
		return
	}
	ctx := c.Request.Context()

	claims, err := h.Identity.VerifyIDToken(ctx, in.IDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	cookie, err := h.Identity.MintSessionCookie(ctx, in.IDToken, h.SessionTTL)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	// merge, never overwrite fields the claims don't carry
	p := domain.Profile{UID: claims.UID, Email: claims.Email, PhotoURL: claims.Picture}
	if err := h.Profiles.UpsertProfile(ctx, p); err != nil {
		log.WithDD(ctx, log.L()).Error("profile upsert failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile save failed"})
		return
	}

	h.setSessionCookie(c, cookie, int(h.SessionTTL.Seconds()))

	go h.Events.Publish(ctx, eventsExchange, "session.issued",
		queue.SessionIssued{UID: claims.UID, Email: claims.Email}, requestID(c))

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// TerminateSession godoc
// @Summary Clear the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /api/auth/session [delete]
func (h *Handler) TerminateSession(c *gin.Context) {
	// unconditional: overwrite with an already-expired cookie whether or not
	// a session existed; upstream revocation stays best-effort
	h.setSessionCookie(c, "", -1)

	go h.Events.Publish(c.Request.Context(), eventsExchange, "session.revoked",
		queue.SessionRevoked{}, requestID(c))

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// setSessionCookie writes the session cookie with the fixed attribute set:
// http-only, SameSite Lax, root path, secure in production. maxAge -1 puts
// Max-Age=0 on the wire.
func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, value, maxAge, "/", "", h.SecureCookies, true)
}

func (h *Handler) Healthz(c *gin.Context) {
	if h.DB != nil {
		if err := h.DB.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
