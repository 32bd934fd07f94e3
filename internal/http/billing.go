package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tazhibayda/tasks-service/internal/domain"
	"github.com/tazhibayda/tasks-service/internal/log"
	"github.com/tazhibayda/tasks-service/internal/queue"
)

// ensureCustomer reuses the stored processor customer id, or provisions one
// and persists it before any session creation. The write-first ordering
// means a failed session leaves a stored id a later attempt reuses, so at
// most one processor customer ever exists per user.
//
// The session-derived snapshot only proves a linkage, never its absence: a
// profile read that failed during auth leaves the field empty. So an empty
// id is confirmed against the store here, and a read failure aborts the
// request instead of minting a duplicate customer.
func (h *Handler) ensureCustomer(ctx context.Context, u *domain.CurrentUser) (string, error) {
	if u.StripeCustomerID != "" {
		return u.StripeCustomerID, nil
	}
	p, err := h.Profiles.GetProfile(ctx, u.UID)
	if err != nil {
		return "", err
	}
	if p != nil && p.StripeCustomerID != "" {
		u.StripeCustomerID = p.StripeCustomerID
		return p.StripeCustomerID, nil
	}
	id, err := h.Billing.CreateCustomer(ctx, u.Email, u.UID)
	if err != nil {
		return "", err
	}
	if err := h.Profiles.SetStripeCustomerID(ctx, u.UID, id); err != nil {
		return "", err
	}
	u.StripeCustomerID = id
	return id, nil
}

// Checkout godoc
// @Summary Start a subscription checkout
// @Tags billing
// @Security SessionCookie
// @Accept x-www-form-urlencoded
// @Param priceId formData string true "price id"
// @Success 303
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/stripe/checkout [post]
func (h *Handler) Checkout(c *gin.Context) {
	u := userFrom(c)
	priceID := strings.TrimSpace(c.PostForm("priceId"))
	if priceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "priceId is required"})
		return
	}
	ctx := c.Request.Context()

	customerID, err := h.ensureCustomer(ctx, u)
	if err != nil {
		h.billingError(c, err)
		return
	}
	url, err := h.Billing.CreateCheckoutSession(ctx, customerID, priceID,
		h.AppBaseURL+"/dashboard?checkout=success",
		h.AppBaseURL+"/pricing")
	if err != nil {
		h.billingError(c, err)
		return
	}

	go h.Events.Publish(ctx, eventsExchange, "checkout.started",
		queue.CheckoutStarted{UID: u.UID, CustomerID: customerID, PriceID: priceID}, requestID(c))

	c.Redirect(http.StatusSeeOther, url)
}

// BillingPortal godoc
// @Summary Open the processor-hosted billing portal
// @Tags billing
// @Security SessionCookie
// @Success 303
// @Failure 401 {object} map[string]string
// @Router /api/stripe/portal [post]
func (h *Handler) BillingPortal(c *gin.Context) {
	u := userFrom(c)
	ctx := c.Request.Context()

	customerID, err := h.ensureCustomer(ctx, u)
	if err != nil {
		h.billingError(c, err)
		return
	}
	url, err := h.Billing.CreatePortalSession(ctx, customerID, h.AppBaseURL+"/dashboard")
	if err != nil {
		h.billingError(c, err)
		return
	}

	go h.Events.Publish(ctx, eventsExchange, "portal.opened",
		queue.PortalOpened{UID: u.UID, CustomerID: customerID}, requestID(c))

	c.Redirect(http.StatusSeeOther, url)
}

// BillingConfig godoc
// @Summary Publishable billing config for the hosted pricing widget
// @Tags billing
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/stripe/config [get]
func (h *Handler) BillingConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"publishableKey": h.PublishableKey,
		"pricingTableId": h.PricingTableID,
	})
}

// Processor failures are not translated into the taxonomy: record the error
// on the context and answer with the framework-shaped generic 500.
func (h *Handler) billingError(c *gin.Context, err error) {
	_ = c.Error(err)
	log.WithDD(c.Request.Context(), log.L()).Error("billing call failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
