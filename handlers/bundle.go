package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle aggregates the route handlers registered by routes.RegisterRoutes.
type HandlerBundle struct {
	// Draft endpoints
	GetDraft    gin.HandlerFunc
	UpdateDraft gin.HandlerFunc
	DeleteDraft gin.HandlerFunc
	SetService  gin.HandlerFunc

	// Flow endpoints
	Quote        gin.HandlerFunc
	Submit       gin.HandlerFunc
	EnterAccount gin.HandlerFunc
	Exit         gin.HandlerFunc

	// Lookup endpoints
	AddressSuggestions gin.HandlerFunc
	LookupPostal       gin.HandlerFunc
	Providers          gin.HandlerFunc
	ToggleProvider     gin.HandlerFunc
	MatchingProgress   gin.HandlerFunc

	// Payment endpoints
	PaymentHandoff gin.HandlerFunc
}

func NewHandlerBundle(p *PlannerHandler, pay *PaymentHandler, m *MatchingHandler) *HandlerBundle {
	return &HandlerBundle{
		GetDraft:           p.GetDraft,
		UpdateDraft:        p.UpdateDraft,
		DeleteDraft:        p.DeleteDraft,
		SetService:         p.SetService,
		Quote:              p.Quote,
		Submit:             p.Submit,
		EnterAccount:       p.EnterAccount,
		Exit:               p.Exit,
		AddressSuggestions: p.AddressSuggestions,
		LookupPostal:       p.LookupPostal,
		Providers:          p.Providers,
		ToggleProvider:     p.ToggleProvider,
		MatchingProgress:   m.Progress,
		PaymentHandoff:     pay.Handoff,
	}
}
