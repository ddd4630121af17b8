package http

import (
	"net/http"

	"biliran-rental-backend/internal/domain"
	"biliran-rental-backend/internal/service"

	"github.com/gorilla/mux"
)

type registerVehicleRequest struct {
	OwnerID   string              `json:"ownerId"`
	Name      string              `json:"name"`
	Class     domain.VehicleClass `json:"class"`
	DailyRate int64               `json:"dailyRate"`
	Location  string              `json:"location"`
	Available *bool               `json:"available"`
}

type availabilityRequest struct {
	Available *bool `json:"available"`
}

type approvalRequest struct {
	Approval domain.VehicleApproval `json:"approval"`
}

type conflictCheckResponse struct {
	VehicleID           string           `json:"vehicleId"`
	Available           bool             `json:"available"`
	ConflictingBookings []bookingWindow  `json:"conflictingBookings"`
	NextAvailableDate   string           `json:"nextAvailableDate,omitempty"`
	AlternativeVehicles []domain.Vehicle `json:"alternativeVehicles"`
}

type catalogResponse struct {
	ClassRates map[domain.VehicleClass]int64 `json:"classRates"`
	Addons     map[string]int64              `json:"addons"`
}

func (h *handler) getCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalogResponse{
		ClassRates: h.svcs.Catalog.ClassRates(),
		Addons:     h.svcs.Catalog.AddonPrices(),
	})
}

func (h *handler) listVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.svcs.Vehicles.ListVehicles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vehicles": vehicles})
}

func (h *handler) getVehicle(w http.ResponseWriter, r *http.Request) {
	v, err := h.svcs.Vehicles.GetVehicle(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *handler) registerVehicle(w http.ResponseWriter, r *http.Request) {
	var req registerVehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	v, err := h.svcs.Vehicles.RegisterVehicle(r.Context(), actor(r), &domain.Vehicle{
		OwnerID:   req.OwnerID,
		Name:      req.Name,
		Class:     req.Class,
		DailyRate: req.DailyRate,
		Location:  req.Location,
		Available: available,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *handler) setAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Available == nil {
		writeErrorMessage(w, http.StatusBadRequest, "available is required")
		return
	}
	v, err := h.svcs.Vehicles.SetAvailability(r.Context(), actor(r), mux.Vars(r)["id"], *req.Available)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *handler) setApproval(w http.ResponseWriter, r *http.Request) {
	var req approvalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	v, err := h.svcs.Vehicles.SetApproval(r.Context(), actor(r), mux.Vars(r)["id"], req.Approval)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *handler) getAvailableVehicles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	vehicles, err := h.svcs.Availability.GetAvailableVehicles(r.Context(), q.Get("pickupDate"), q.Get("returnDate"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vehicles": vehicles})
}

// checkConflict answers "can I book this vehicle for these dates" without
// creating anything.
func (h *handler) checkConflict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vehicleID := mux.Vars(r)["id"]
	q := r.URL.Query()
	pickup, ret := q.Get("pickupDate"), q.Get("returnDate")

	conflicts, err := h.svcs.Availability.CheckConflict(ctx, vehicleID, pickup, ret)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := conflictCheckResponse{
		VehicleID:           vehicleID,
		Available:           len(conflicts) == 0,
		ConflictingBookings: windows(conflicts),
		AlternativeVehicles: []domain.Vehicle{},
	}
	if !resp.Available {
		alternatives, err := h.svcs.Availability.Alternatives(ctx, pickup, ret, vehicleID, service.MaxAlternatives)
		if err != nil {
			writeError(w, err)
			return
		}
		resp.AlternativeVehicles = nonNilVehicles(alternatives)
		resp.NextAvailableDate = service.NextAvailableDate(conflicts)
	}
	writeJSON(w, http.StatusOK, resp)
}
