//go:build !integration

package web_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"telegram-order-notifier/internal/domain/model"
	"telegram-order-notifier/internal/infra/web"
)

const testAPIKey = "secret-key-123"

type mockNotifier struct {
	calls  int
	phone  string
	order  string
	items  []string
	result model.DeliveryResult
}

func (m *mockNotifier) NotifyOrderReady(ctx context.Context, phone, orderID string, items []string) model.DeliveryResult {
	m.calls++
	m.phone = phone
	m.order = orderID
	m.items = items
	return m.result
}

// newTestServer drives the same route tree the binary mounts.
func newTestServer(t *testing.T, notifier *mockNotifier) http.Handler {
	t.Helper()
	logger := zerolog.New(io.Discard)
	return web.Router(web.ServerDeps{
		Port:     "0",
		APIKey:   testAPIKey,
		Notifier: notifier,
		Log:      &logger,
	})
}

func doTrigger(t *testing.T, h http.Handler, key, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/trigger-notification", strings.NewReader(body))
	if key != "" {
		req.Header.Set("X-Internal-API-Key", key)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body["status"]
}

func TestTriggerAuth(t *testing.T) {
	t.Run("missing key is rejected before the dispatcher runs", func(t *testing.T) {
		notifier := &mockNotifier{}
		h := newTestServer(t, notifier)

		rec := doTrigger(t, h, "", `{"phone":"+380501112233","order_id":"A-17"}`)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
		if notifier.calls != 0 {
			t.Errorf("dispatcher must not run for unauthenticated requests")
		}
	})

	t.Run("wrong key is rejected", func(t *testing.T) {
		notifier := &mockNotifier{}
		h := newTestServer(t, notifier)

		rec := doTrigger(t, h, "wrong-key", `{"phone":"+380501112233","order_id":"A-17"}`)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
		if notifier.calls != 0 {
			t.Errorf("dispatcher must not run for a wrong key")
		}
	})
}

func TestTriggerValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not JSON", `not json at all`},
		{"missing phone", `{"order_id":"A-17"}`},
		{"missing order id", `{"phone":"+380501112233"}`},
		{"empty phone", `{"phone":"","order_id":"A-17"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			notifier := &mockNotifier{}
			h := newTestServer(t, notifier)

			rec := doTrigger(t, h, testAPIKey, tc.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if notifier.calls != 0 {
				t.Errorf("dispatcher must not run for invalid payloads")
			}
		})
	}
}

func TestTriggerDispatch(t *testing.T) {
	t.Run("delivered maps to Success", func(t *testing.T) {
		notifier := &mockNotifier{result: model.DeliveryResult{Status: model.StatusDelivered}}
		h := newTestServer(t, notifier)

		rec := doTrigger(t, h, testAPIKey,
			`{"phone":"+380501112233","order_id":"A-17","items":["сукня","штани"]}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if got := decodeStatus(t, rec); got != "Success" {
			t.Errorf("status = %q, want Success", got)
		}
		if notifier.phone != "+380501112233" || notifier.order != "A-17" || len(notifier.items) != 2 {
			t.Errorf("dispatcher got %q %q %v", notifier.phone, notifier.order, notifier.items)
		}
	})

	t.Run("legacy phone_number field is accepted", func(t *testing.T) {
		notifier := &mockNotifier{result: model.DeliveryResult{Status: model.StatusDelivered}}
		h := newTestServer(t, notifier)

		rec := doTrigger(t, h, testAPIKey, `{"phone_number":"+380501112233","order_id":"A-17"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if notifier.phone != "+380501112233" {
			t.Errorf("phone = %q", notifier.phone)
		}
	})

	t.Run("unknown recipient maps to the exact failure string", func(t *testing.T) {
		notifier := &mockNotifier{result: model.DeliveryResult{Status: model.StatusRecipientUnknown}}
		h := newTestServer(t, notifier)

		rec := doTrigger(t, h, testAPIKey, `{"phone":"+380509999999","order_id":"A-18"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if got := decodeStatus(t, rec); got != "Failed: User not found" {
			t.Errorf("status = %q", got)
		}
	})

	t.Run("transport failure maps to a generic delivery error", func(t *testing.T) {
		notifier := &mockNotifier{result: model.DeliveryResult{
			Status: model.StatusTransportFailed,
			Reason: "bot was blocked by the user",
		}}
		h := newTestServer(t, notifier)

		rec := doTrigger(t, h, testAPIKey, `{"phone":"+380501112233","order_id":"A-19"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		got := decodeStatus(t, rec)
		if got != "Failed: Delivery error" {
			t.Errorf("status = %q", got)
		}
		if strings.Contains(got, "blocked") {
			t.Errorf("transport detail leaked to the caller")
		}
	})
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t, &mockNotifier{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
