package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-order-notifier/internal/usecase"
)

// Server exposes the trigger endpoint, the Telegram webhook and the
// operational routes on a single listener.
type Server struct {
	httpSrv *http.Server
	log     *zerolog.Logger
}

type ServerDeps struct {
	Port        string
	APIKey      string
	WebhookPath string
	Webhook     http.HandlerFunc // nil in polling mode
	Notifier    usecase.NotificationUseCase
	Log         *zerolog.Logger
}

// Router builds the route tree. Split out from NewServer so tests can drive
// it through httptest without binding a port.
func Router(d ServerDeps) http.Handler {
	r := chi.NewRouter()

	trigger := Chain(
		keyAuth(d.APIKey, &triggerHandler{notifier: d.Notifier, log: d.Log}),
		TraceID(),
		RequestLog(d.Log),
		Recover(d.Log),
		Timeout(15*time.Second),
	)
	r.Method(http.MethodPost, "/trigger-notification", trigger)

	if d.Webhook != nil && d.WebhookPath != "" {
		r.Post(d.WebhookPath, d.Webhook)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func NewServer(d ServerDeps) *Server {
	return &Server{
		httpSrv: &http.Server{
			Addr:              ":" + d.Port,
			Handler:           Router(d),
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: d.Log,
	}
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpSrv.Addr).Msg("http server listening")
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
