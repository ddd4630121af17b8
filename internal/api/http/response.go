package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"biliran-rental-backend/internal/domain"
	"biliran-rental-backend/internal/jobs"
	"biliran-rental-backend/internal/logger"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type conflictResponse struct {
	Error               string           `json:"error"`
	ConflictingBookings []bookingWindow  `json:"conflictingBookings"`
	AlternativeVehicles []domain.Vehicle `json:"alternativeVehicles"`
	NextAvailableDate   string           `json:"nextAvailableDate"`
}

type transitionResponse struct {
	Error         string               `json:"error"`
	CurrentStatus domain.BookingStatus `json:"currentStatus"`
}

// bookingWindow is the part of someone else's booking a caller may see.
type bookingWindow struct {
	ReferenceCode string               `json:"referenceCode"`
	PickupDate    string               `json:"pickupDate"`
	ReturnDate    string               `json:"returnDate"`
	PickupTime    string               `json:"pickupTime"`
	ReturnTime    string               `json:"returnTime"`
	Status        domain.BookingStatus `json:"status"`
}

func windows(bookings []domain.Booking) []bookingWindow {
	out := make([]bookingWindow, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		out = append(out, bookingWindow{
			ReferenceCode: b.ReferenceCode,
			PickupDate:    b.PickupDate,
			ReturnDate:    b.ReturnDate,
			PickupTime:    b.PickupTime,
			ReturnTime:    b.ReturnTime,
			Status:        b.Status(),
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeError maps service errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var (
		validation *domain.ValidationError
		conflict   *domain.ConflictError
		transition *domain.InvalidTransitionError
		notFound   *domain.NotFoundError
	)
	switch {
	case errors.As(err, &validation):
		writeErrorMessage(w, http.StatusBadRequest, validation.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeErrorMessage(w, http.StatusForbidden, err.Error())
	case errors.As(err, &notFound):
		writeErrorMessage(w, http.StatusNotFound, notFound.Error())
	case errors.Is(err, jobs.ErrUnknownJob):
		writeErrorMessage(w, http.StatusNotFound, err.Error())
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, conflictResponse{
			Error:               conflict.Message,
			ConflictingBookings: windows(conflict.ConflictingBookings),
			AlternativeVehicles: nonNilVehicles(conflict.AlternativeVehicles),
			NextAvailableDate:   conflict.NextAvailableDate,
		})
	case errors.As(err, &transition):
		writeJSON(w, http.StatusConflict, transitionResponse{
			Error:         transition.Error(),
			CurrentStatus: transition.Current,
		})
	default:
		logger.Error("Unhandled request error", "error", err)
		writeErrorMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads an optional JSON body into v. An empty body leaves v
// untouched.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return domain.NewValidationError("invalid request body: %v", err)
	}
	return nil
}

func nonNilVehicles(v []domain.Vehicle) []domain.Vehicle {
	if v == nil {
		return []domain.Vehicle{}
	}
	return v
}
