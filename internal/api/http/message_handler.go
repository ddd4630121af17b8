package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

type messageRequest struct {
	Body string `json:"body"`
}

func (h *handler) listMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.svcs.Messages.ListMessages(r.Context(), actor(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (h *handler) postMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	msg, err := h.svcs.Messages.PostMessage(r.Context(), actor(r), mux.Vars(r)["id"], req.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *handler) requestCancellation(w http.ResponseWriter, r *http.Request) {
	var req reasonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	msg, err := h.svcs.Messages.RequestCancellation(r.Context(), actor(r), mux.Vars(r)["id"], req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *handler) getNotifications(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt32(r, "page")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid page")
		return
	}
	pageSize, err := queryInt32(r, "pageSize")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid pageSize")
		return
	}

	notes, total, err := h.svcs.Notifications.GetNotifications(r.Context(), actor(r).UserID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": notes, "total": total})
}

func (h *handler) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := h.svcs.Notifications.MarkAsRead(r.Context(), actor(r).UserID, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) runJob(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if h.svcs.Jobs == nil {
		writeErrorMessage(w, http.StatusServiceUnavailable, "jobs are not configured")
		return
	}
	if err := h.svcs.Jobs.Run(name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"job": name, "status": "completed"})
}

// queryInt32 parses an optional integer query parameter. Missing means 0.
func queryInt32(r *http.Request, key string) (int32, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}
