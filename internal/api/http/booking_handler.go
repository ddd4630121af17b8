package http

import (
	"context"
	"net/http"

	"biliran-rental-backend/internal/domain"

	"github.com/gorilla/mux"
)

type lifecycleFunc func(ctx context.Context, actor domain.Actor, bookingID string) (*domain.Booking, error)

type reasonFunc func(ctx context.Context, actor domain.Actor, bookingID, reason string) (*domain.Booking, error)

type reasonRequest struct {
	Reason string `json:"reason"`
}

type addonRequest struct {
	Enabled *bool `json:"enabled"`
}

type promoRequest struct {
	PromoCode string `json:"promoCode"`
}

type lateFeeRequest struct {
	Amount int64 `json:"amount"`
}

type paymentRequest struct {
	Status domain.PaymentStatus `json:"status"`
	Paid   int64                `json:"paid"`
}

func (h *handler) createBooking(w http.ResponseWriter, r *http.Request) {
	var req domain.BookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	b, err := h.svcs.Bookings.Create(r.Context(), actor(r), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *handler) listBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.svcs.Bookings.ListBookings(r.Context(), actor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (h *handler) getBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.svcs.Bookings.GetBooking(r.Context(), actor(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// lifecycle adapts a body-less state machine command.
func (h *handler) lifecycle(op lifecycleFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := op(r.Context(), actor(r), mux.Vars(r)["id"])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

// withReason adapts a command that takes an optional {"reason": ...} body.
func (h *handler) withReason(op reasonFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reasonRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		b, err := op(r.Context(), actor(r), mux.Vars(r)["id"], req.Reason)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

func (h *handler) toggleAddon(w http.ResponseWriter, r *http.Request) {
	var req addonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Enabled == nil {
		writeErrorMessage(w, http.StatusBadRequest, "enabled is required")
		return
	}
	vars := mux.Vars(r)
	b, err := h.svcs.Bookings.ToggleAddon(r.Context(), actor(r), vars["id"], vars["addon"], *req.Enabled)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *handler) applyPromo(w http.ResponseWriter, r *http.Request) {
	var req promoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	b, err := h.svcs.Bookings.ApplyPromo(r.Context(), actor(r), mux.Vars(r)["id"], req.PromoCode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *handler) postLateFee(w http.ResponseWriter, r *http.Request) {
	var req lateFeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	b, err := h.svcs.Bookings.PostLateFee(r.Context(), actor(r), mux.Vars(r)["id"], req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	b, err := h.svcs.Bookings.RecordPayment(r.Context(), actor(r), mux.Vars(r)["id"], req.Status, req.Paid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// uploadCondition takes the booking and phase from the path; the body
// carries the snapshot fields.
func (h *handler) uploadCondition(w http.ResponseWriter, r *http.Request) {
	var in domain.ConditionUpload
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	vars := mux.Vars(r)
	in.BookingID = vars["id"]
	in.Phase = domain.ConditionPhase(vars["phase"])

	b, err := h.svcs.Bookings.UploadCondition(r.Context(), actor(r), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *handler) getPenalties(w http.ResponseWriter, r *http.Request) {
	report, err := h.svcs.Bookings.AssessPenalties(r.Context(), actor(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
