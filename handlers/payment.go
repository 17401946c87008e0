package handlers

import (
	"net/http"

	"saubio/middleware"
	"saubio/services/payment"
	"saubio/services/planner"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler serves the payment page's handoff decision.
type PaymentHandler struct {
	ctrl     *planner.Controller
	resolver *payment.Resolver
}

func NewPaymentHandler(ctrl *planner.Controller, resolver *payment.Resolver) *PaymentHandler {
	return &PaymentHandler{ctrl: ctrl, resolver: resolver}
}

// Handoff clears the tab's draft and resolves where the customer goes next.
// Failures are reported once; the page offers a manual retry.
func (h *PaymentHandler) Handoff(c *gin.Context) {
	ctx := c.Request.Context()
	h.ctrl.ResetDraft(ctx, middleware.ScopeFrom(c))

	bookingID := c.Param("bookingId")
	handoff, err := h.resolver.Resolve(ctx, middleware.PrincipalFrom(c), bookingID)
	if err != nil {
		getLogger(c).Warn("payment handoff failed", zap.String("bookingId", bookingID), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handoff)
}
