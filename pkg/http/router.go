package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type Config struct {
	Addr string
	// RateLimit is the allowed requests per second, 0 disables limiting.
	RateLimit    float64
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// API serves the metrics of the overlay builder.
type API struct {
	log      *zap.Logger
	gatherer prometheus.Gatherer
}

func NewAPI(log *zap.Logger, gatherer prometheus.Gatherer) *API {
	if log == nil {
		log = zap.NewNop()
	}
	return &API{log: log, gatherer: gatherer}
}

func (api *API) Handler(config Config) http.Handler {
	router := httprouter.New()
	router.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(api.gatherer, promhttp.HandlerOpts{}))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})

	mwChain := []alice.Constructor{corsHandler.Handler, api.recoverPanic, Heartbeat("healthz"), Logger(api.log)}
	if config.RateLimit > 0 {
		mwChain = append(mwChain, Limit(config.RateLimit, int(config.RateLimit)+1))
	}
	return alice.New(mwChain...).Then(router)
}

// Run serves until ctx is done, then shuts the server down.
func (api *API) Run(ctx context.Context, config Config) error {
	srv := &http.Server{
		Addr:    config.Addr,
		Handler: api.Handler(config),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
		ReadTimeout:       config.ReadTimeout,
		WriteTimeout:      config.WriteTimeout,
		ReadHeaderTimeout: config.ReadTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		api.log.Info("metrics server listening", zap.String("addr", config.Addr))
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		api.log.Info("context canceled, shutting down metrics server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
