package main

import (
	"context"
	"errors"
	"expvar"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventadmin/internal/auth"
	"eventadmin/internal/docstore"
	"eventadmin/internal/domain/admindashboard"
	"eventadmin/internal/ratelimiter"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// identityProvider is the external sign-in/sign-out collaborator.
type identityProvider interface {
	SignIn(ctx context.Context, email, password string) (auth.Session, auth.TokenPair, error)
	SignOut(ctx context.Context, s auth.Session) error
	Refresh(ctx context.Context, refreshToken string) (auth.Session, auth.TokenPair, error)
}

type application struct {
	config        config
	logger        *zap.SugaredLogger
	stats         admindashboard.Loader
	identity      identityProvider
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
	sessions      *scs.SessionManager
	templates     map[string]*template.Template
	formatter     *admindashboard.Formatter
}

type config struct {
	addr         string
	env          string
	apiURL       string
	frontendURL  string
	cookieDomain string
	autoMigrate  bool
	db           dbConfig
	docstore     docstore.Config
	auth         authConfig
	dashboard    dashboardConfig
	rateLimiter  ratelimiter.Config
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	secret          string
	refreshSecret   string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
	iss             string
}

type basicConfig struct {
	user string
	pass string
}

type dbConfig struct {
	addr        string
	maxConns    int
	maxIdleTime string
}

type dashboardConfig struct {
	statsTimeout   time.Duration
	concurrency    int
	currencySymbol string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	//Set a timeout value on the request context (ctx), that will signal through ctx.Done() that the request has timed out and further processing should be stopped
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, admindashboard.RouteDashboard, http.StatusSeeOther)
	})

	// Server-rendered admin panel
	r.Route(admindashboard.RouteDashboard, func(r chi.Router) {
		r.Use(app.sessions.LoadAndSave)
		r.Use(app.CSRFMiddleware)

		r.Get("/sign-in", app.signInPageHandler)
		r.With(app.RateLimiterMiddleware).Post("/sign-in", app.signInFormHandler)

		r.Group(func(r chi.Router) {
			r.Use(app.RequireAdminPage)
			r.Get("/", app.dashboardPageHandler)
			r.Post("/sign-out", app.signOutFormHandler)
		})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{app.config.frontendURL},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: true,
			MaxAge:           300, // Maximum value not ignored by any of major browsers
		}))

		r.Get("/health", app.healthCheckHandler)
		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		r.Route("/admin", func(r chi.Router) {
			r.With(app.RateLimiterMiddleware).Post("/sign-in", app.signInHandler)
			r.Post("/refresh", app.refreshTokenHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware)
				r.Get("/session", app.sessionHandler)
				r.Get("/dashboard", app.adminDashboardHandler)
				r.Post("/sign-out", app.signOutHandler)
			})
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
