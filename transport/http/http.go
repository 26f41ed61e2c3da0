package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"

	"facility/config"
	"facility/docs"
	"facility/infras/metrics"
	"facility/internal/handlers/health"
	"facility/shared/constant"
	"facility/transport/http/middleware"
	"facility/transport/http/response"
	"facility/transport/http/router"
)

type ServerState int

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
)

type HTTP struct {
	Config *config.Config
	Router router.Router
	State  ServerState

	app    middleware.AppMiddleware
	auth   middleware.Auth
	health health.Handler

	mux     *chi.Mux
	once    sync.Once
	stateMu sync.RWMutex
}

func New(
	cfg *config.Config,
	r router.Router,
	app middleware.AppMiddleware,
	auth middleware.Auth,
	health health.Handler,
) *HTTP {
	return &HTTP{
		Config: cfg,
		Router: r,
		app:    app,
		auth:   auth,
		health: health,
	}
}

func (h *HTTP) Serve() {
	h.setup()

	server := &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:           h.mux,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	go h.respondToSigterm(server)

	log.Info().Str("port", h.Config.Server.Port).Msg("Starting up HTTP server.")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

// ServeHTTP lets the service run behind a serverless function.
func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.setup()

	h.mux.ServeHTTP(w, r)
}

func (h *HTTP) setup() {
	h.once.Do(func() {
		h.setupRoutes()
		h.setState(ServerStateReady)
	})
}

func (h *HTTP) setupRoutes() {
	h.mux = chi.NewRouter()

	h.mux.Use(chiMiddleware.RequestID, chiMiddleware.RealIP, chiMiddleware.Recoverer)

	if corsConfig := h.Config.App.CORS; corsConfig.Enable {
		h.mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsConfig.AllowedOrigins,
			AllowedMethods:   corsConfig.AllowedMethods,
			AllowedHeaders:   corsConfig.AllowedHeaders,
			AllowCredentials: corsConfig.AllowCredentials,
			MaxAge:           corsConfig.MaxAgeSeconds,
		}))
	}

	h.mux.Use(h.app.Tracing, h.app.Metrics, h.app.RateLimit(), h.auth.Auth)

	h.mux.Get("/health", h.healthCheck)

	if h.Config.Metrics.Enable {
		metrics.Register()
		h.mux.Handle("/metrics", metrics.Handler())
	}

	docs.SwaggerInfo.Title = h.Config.App.Name
	h.mux.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	h.Router.SetupRoutes(h.mux)
}

func (h *HTTP) healthCheck(w http.ResponseWriter, r *http.Request) {
	if h.getState() != ServerStateReady {
		response.WithPreparingShutdown(w)

		return
	}

	h.health.Health(w, r)
}

func (h *HTTP) setState(state ServerState) {
	h.stateMu.Lock()
	defer h.stateMu.Unlock()

	h.State = state
}

func (h *HTTP) getState() ServerState {
	h.stateMu.RLock()
	defer h.stateMu.RUnlock()

	return h.State
}

func (h *HTTP) respondToSigterm(server *http.Server) {
	done := make(chan os.Signal, 1)

	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	<-done

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")

		if err := server.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close HTTP server")
		}

		return
	}

	shutdownConfig := h.Config.Server.Shutdown

	log.Info().Msg("Received SIGTERM.")
	log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

	h.setState(ServerStateInGracePeriod)

	time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.setState(ServerStateInCleanupPeriod)

	h.shutdown(server, time.Duration(shutdownConfig.CleanupPeriodSeconds)*time.Second)

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}

// shutdown stops accepting connections and waits up to timeout for in-flight requests.
func (h *HTTP) shutdown(server *http.Server, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server did not drain in time")
	}
}
