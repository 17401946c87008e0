package saubioapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"saubio/models"
)

// CreateBooking creates a booking owned by the authenticated caller.
func (c *Client) CreateBooking(ctx context.Context, token string, req models.BookingRequest) (*models.BookingRecord, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	var record models.BookingRecord
	if err := c.do(ctx, http.MethodPost, "/bookings", token, req, &record); err != nil {
		return nil, err
	}
	if record.ID == "" {
		return nil, fmt.Errorf("%w: booking without id", ErrInvalidResponse)
	}
	return &record, nil
}

// CreateGuestBooking creates a booking held by req.GuestToken until it is claimed.
func (c *Client) CreateGuestBooking(ctx context.Context, req models.BookingRequest) (*models.BookingRecord, error) {
	if req.GuestToken == "" {
		return nil, fmt.Errorf("%w: guest booking without token", ErrInternal)
	}
	var record models.BookingRecord
	if err := c.do(ctx, http.MethodPost, "/bookings/guest", "", req, &record); err != nil {
		return nil, err
	}
	if record.ID == "" {
		return nil, fmt.Errorf("%w: booking without id", ErrInvalidResponse)
	}
	c.logger.Info("guest booking created", zap.String("bookingId", record.ID))
	return &record, nil
}

// ClaimBooking attaches a guest booking to the authenticated caller.
// ErrBookingAlreadyAssigned is returned unchanged so callers can treat it as success.
func (c *Client) ClaimBooking(ctx context.Context, token string, req models.ClaimRequest) error {
	if token == "" {
		return ErrUnauthorized
	}
	path := "/bookings/" + url.PathEscape(req.BookingID) + "/claim"
	return c.do(ctx, http.MethodPost, path, token, req, nil)
}

func (c *Client) GetBooking(ctx context.Context, token, bookingID string) (*models.BookingRecord, error) {
	var record models.BookingRecord
	if err := c.do(ctx, http.MethodGet, "/bookings/"+url.PathEscape(bookingID), token, nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListMyBookings returns the caller's bookings. An empty list is not an error.
func (c *Client) ListMyBookings(ctx context.Context, token string) ([]models.BookingRecord, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	var records []models.BookingRecord
	if err := c.do(ctx, http.MethodGet, "/bookings/me", token, nil, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.BookingRecord{}
	}
	return records, nil
}

func (c *Client) GetPaymentIntent(ctx context.Context, token, bookingID string) (*models.PaymentIntent, error) {
	var intent models.PaymentIntent
	path := "/bookings/" + url.PathEscape(bookingID) + "/payment-intent"
	if err := c.do(ctx, http.MethodGet, path, token, nil, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}
