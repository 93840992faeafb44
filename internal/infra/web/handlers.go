package web

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"telegram-order-notifier/internal/domain/model"
	"telegram-order-notifier/internal/infra/logging"
	"telegram-order-notifier/internal/infra/metrics"
	"telegram-order-notifier/internal/usecase"
)

const apiKeyHeader = "X-Internal-API-Key"

// Response bodies the order system's integration matches on verbatim.
const (
	statusSuccess       = "Success"
	statusUserNotFound  = "Failed: User not found"
	statusDeliveryError = "Failed: Delivery error"
)

type triggerRequest struct {
	Phone       string   `json:"phone"`
	PhoneNumber string   `json:"phone_number"`
	OrderID     string   `json:"order_id"`
	Items       []string `json:"items"`
}

func (t triggerRequest) phone() string {
	if t.Phone != "" {
		return t.Phone
	}
	return t.PhoneNumber
}

type triggerHandler struct {
	notifier usecase.NotificationUseCase
	log      *zerolog.Logger
}

// keyAuth rejects before any body parsing. The compare is constant-time so
// the key cannot be probed byte by byte through response timing.
func keyAuth(expected string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get(apiKeyHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			metrics.IncTriggerAuthFailure()
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *triggerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req triggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if req.phone() == "" || req.OrderID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "phone and order_id are required"})
		return
	}

	result := h.notifier.NotifyOrderReady(r.Context(), req.phone(), req.OrderID, req.Items)

	l := logging.With(r.Context(), h.log)
	switch result.Status {
	case model.StatusDelivered:
		writeJSON(w, http.StatusOK, map[string]string{"status": statusSuccess})
	case model.StatusRecipientUnknown:
		writeJSON(w, http.StatusOK, map[string]string{"status": statusUserNotFound})
	default:
		l.Error().Str("order_id", req.OrderID).Str("reason", result.Reason).Msg("trigger delivery failed")
		writeJSON(w, http.StatusOK, map[string]string{"status": statusDeliveryError})
	}
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
