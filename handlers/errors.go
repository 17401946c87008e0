package handlers

import (
	"context"
	"errors"
	"net/http"

	"saubio/services/lookup"
	"saubio/services/payment"
	"saubio/services/planner"
	"saubio/services/saubioapi"
	"saubio/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusClientClosed is logged when the browser went away mid-request.
const statusClientClosed = 499

type validationResponse struct {
	Message string                   `json:"message"`
	Code    string                   `json:"code"`
	Errors  planner.ValidationErrors `json:"errors"`
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var verrs planner.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusUnprocessableEntity, validationResponse{
			Message: "Please correct the highlighted fields.",
			Code:    "VALIDATION_FAILED",
			Errors:  verrs,
		})
	case errors.Is(err, lookup.ErrSuperseded):
		c.JSON(http.StatusConflict, utils.ErrorResponse{Message: "A newer request replaced this one.", Code: "SUPERSEDED"})
	case errors.Is(err, context.Canceled):
		getLogger(c).Debug("client went away", zap.Error(err))
		c.AbortWithStatus(statusClientClosed)
	case errors.Is(err, planner.ErrUnauthenticated), errors.Is(err, payment.ErrUnauthenticated), errors.Is(err, saubioapi.ErrUnauthorized):
		utils.JSONErrorCode(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Please sign in to continue.")
	case errors.Is(err, planner.ErrMissingBooking), errors.Is(err, payment.ErrMissingBooking):
		utils.JSONErrorCode(c, http.StatusBadRequest, "MISSING_BOOKING", "No booking reference was provided.")
	case errors.Is(err, planner.ErrIllegalTransition):
		utils.JSONErrorCode(c, http.StatusConflict, "ILLEGAL_STATE", "This step is not available right now.")
	case errors.Is(err, planner.ErrLookupUnavailable):
		utils.JSONErrorCode(c, http.StatusServiceUnavailable, "LOOKUP_UNAVAILABLE", "Lookup is unavailable. Please retry.")
	case errors.Is(err, payment.ErrHandoffUnavailable):
		utils.JSONErrorCode(c, http.StatusServiceUnavailable, "PAYMENT_UNAVAILABLE", "Payment details could not be loaded. Please retry.")
	case errors.Is(err, planner.ErrGuestToken):
		utils.JSONErrorCode(c, http.StatusServiceUnavailable, "GUEST_TOKEN_UNAVAILABLE", "Please retry your booking.")
	case errors.Is(err, planner.ErrClaimFailed):
		utils.JSONErrorCode(c, http.StatusBadGateway, "CLAIM_FAILED", "Your booking could not be linked to your account.")
	case errors.Is(err, planner.ErrSubmission):
		utils.JSONErrorCode(c, http.StatusBadGateway, "SUBMISSION_FAILED", "Your booking could not be created. Please retry.")
	default:
		getLogger(c).Error("unhandled error", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred. Please try again later.")
	}
}

// getLogger returns the request-scoped logger set by middleware.RequestLogger.
func getLogger(c *gin.Context) *zap.Logger {
	if v, ok := c.Get("logger"); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return utils.GetLogger()
}
