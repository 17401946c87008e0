package handlers

import (
	"encoding/json"
	"net/http"

	"saubio/middleware"
	"saubio/models"
	"saubio/services/planner"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PlannerHandler exposes the booking planner to the browser. Every route runs behind
// middleware.TabScope, so drafts are keyed by the tab session.
type PlannerHandler struct {
	ctrl *planner.Controller
}

func NewPlannerHandler(ctrl *planner.Controller) *PlannerHandler {
	return &PlannerHandler{ctrl: ctrl}
}

// GetDraft returns the stored draft or the defaults.
func (h *PlannerHandler) GetDraft(c *gin.Context) {
	c.JSON(http.StatusOK, h.ctrl.Draft(c.Request.Context(), middleware.ScopeFrom(c)))
}

// UpdateDraft applies a partial draft. Unknown or malformed fields are ignored.
func (h *PlannerHandler) UpdateDraft(c *gin.Context) {
	var patch map[string]json.RawMessage
	if err := c.ShouldBindJSON(&patch); err != nil {
		getLogger(c).Debug("invalid draft patch", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.ctrl.UpdateDraft(c.Request.Context(), middleware.ScopeFrom(c), patch))
}

// DeleteDraft starts over.
func (h *PlannerHandler) DeleteDraft(c *gin.Context) {
	c.JSON(http.StatusOK, h.ctrl.ResetDraft(c.Request.Context(), middleware.ScopeFrom(c)))
}

// SetService switches the service category and resets the draft.
func (h *PlannerHandler) SetService(c *gin.Context) {
	var input struct {
		Service models.ServiceCategory `json:"service" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	view, err := h.ctrl.SetService(c.Request.Context(), middleware.ScopeFrom(c), input.Service)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Quote returns the live estimate for the stored draft.
func (h *PlannerHandler) Quote(c *gin.Context) {
	q, err := h.ctrl.Quote(c.Request.Context(), middleware.ScopeFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// Submit validates the draft and creates the booking.
func (h *PlannerHandler) Submit(c *gin.Context) {
	res, err := h.ctrl.Submit(c.Request.Context(), middleware.ScopeFrom(c), middleware.PrincipalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("booking submitted", zap.String("bookingId", res.BookingID), zap.String("stage", string(res.Stage)))
	c.JSON(http.StatusCreated, res)
}

// EnterAccount claims a guest booking after sign-in. The checkout summary is read from the
// query string the planner redirected with.
func (h *PlannerHandler) EnterAccount(c *gin.Context) {
	summary := models.ParseCheckoutSummary(c.Request.URL.Query())
	res, err := h.ctrl.EnterAccount(c.Request.Context(), middleware.ScopeFrom(c), middleware.PrincipalFrom(c), summary)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Exit clears the draft when the browser navigates away from the booking pages.
func (h *PlannerHandler) Exit(c *gin.Context) {
	var input struct {
		Next string `json:"next"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	cleared := h.ctrl.ExitFlow(c.Request.Context(), middleware.ScopeFrom(c), input.Next)
	c.JSON(http.StatusOK, gin.H{"cleared": cleared})
}

// AddressSuggestions autocompletes a street address.
func (h *PlannerHandler) AddressSuggestions(c *gin.Context) {
	hits, err := h.ctrl.AddressSuggestions(c.Request.Context(), middleware.ScopeFrom(c), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": hits})
}

// LookupPostal resolves a postal code to a city.
func (h *PlannerHandler) LookupPostal(c *gin.Context) {
	res, err := h.ctrl.LookupPostal(c.Request.Context(), middleware.ScopeFrom(c), c.Query("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Providers lists provider suggestions for the draft.
func (h *PlannerHandler) Providers(c *gin.Context) {
	view, err := h.ctrl.Providers(c.Request.Context(), middleware.ScopeFrom(c), middleware.PrincipalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ToggleProvider adds or removes a provider from the manual selection.
func (h *PlannerHandler) ToggleProvider(c *gin.Context) {
	var input struct {
		ProviderID string `json:"providerId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	view, err := h.ctrl.ToggleProvider(c.Request.Context(), middleware.ScopeFrom(c), input.ProviderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
