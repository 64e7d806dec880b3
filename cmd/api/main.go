package main

import (
	"context"
	"expvar"
	"log"
	"net/http"
	"os"
	"runtime"
	"time"

	"eventadmin/internal/auth"
	"eventadmin/internal/db"
	"eventadmin/internal/docstore"
	"eventadmin/internal/domain/admindashboard"
	"eventadmin/internal/domain/admins"
	"eventadmin/internal/env"
	"eventadmin/internal/migrations"
	"eventadmin/internal/ratelimiter"

	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
)

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	return ratelimiter.Config{
		RequestsPerTimeFrame: env.GetInt("RATELIMITER_REQUESTS_COUNT", 20),
		TimeFrame:            env.GetDuration("RATELIMITER_TIME_FRAME", time.Minute),
		Enabled:              env.GetBool("RATE_LIMITER_ENABLED", true),
	}
}

// NewLogger creates a new zap logger with color.
func NewLogger(level zapcore.Level) *zap.SugaredLogger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	core := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level)

	return zap.New(core).Sugar()
}

var version = "0.3.0"

func loadConfig() config {
	return config{
		addr:         env.GetString("ADDR", ":8080"),
		env:          env.GetString("ENV", "development"),
		apiURL:       env.GetString("EXTERNAL_URL", "localhost:8080"),
		frontendURL:  env.GetString("FRONTEND_URL", "http://localhost:5173"),
		cookieDomain: os.Getenv("COOKIE_DOMAIN"),
		autoMigrate:  env.GetBool("DB_AUTO_MIGRATE", false),
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    env.GetInt("DB_MAX_CONNS", 10),
			maxIdleTime: env.GetString("DB_MAX_IDLE_TIME", "15m"),
		},
		docstore: docstore.Config{
			Driver:             env.GetString("DOCSTORE_DRIVER", docstore.DriverPostgres),
			MongoURI:           env.GetString("MONGO_URI", "mongodb://localhost:27017"),
			MongoDatabase:      env.GetString("MONGO_DATABASE", "events"),
			FirestoreProjectID: os.Getenv("FIRESTORE_PROJECT_ID"),
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
			token: tokenConfig{
				secret:          os.Getenv("AUTH_TOKEN_SECRET"),
				refreshSecret:   os.Getenv("AUTH_TOKEN_REFRESH_SECRET"),
				accessTokenExp:  env.GetDuration("AUTH_ACCESS_TOKEN_EXP", 12*time.Hour),
				refreshTokenExp: env.GetDuration("AUTH_REFRESH_TOKEN_EXP", 7*24*time.Hour),
				iss:             "eventadmin",
			},
		},
		dashboard: dashboardConfig{
			statsTimeout:   env.GetDuration("STATS_TIMEOUT", 12*time.Second),
			concurrency:    env.GetInt("STATS_CONCURRENCY", 1),
			currencySymbol: env.GetString("CURRENCY_SYMBOL", admindashboard.DefaultCurrencySymbol),
		},
		rateLimiter: LoadRateLimiterConfig(),
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	cfg := loadConfig()

	logger := NewLogger(zapcore.InfoLevel)
	defer logger.Sync()

	if cfg.auth.token.secret == "" || cfg.auth.token.refreshSecret == "" {
		logger.Fatal("AUTH_TOKEN_SECRET and AUTH_TOKEN_REFRESH_SECRET must be set")
	}
	if cfg.db.addr == "" {
		logger.Fatal("DB_ADDR must be set")
	}

	if cfg.autoMigrate {
		if err := migrations.Up(cfg.db.addr); err != nil {
			logger.Fatal(err)
		}
		logger.Info("database migrations applied")
	}

	// Database
	pool, err := db.New(cfg.db.addr, int32(cfg.db.maxConns), cfg.db.maxIdleTime)
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	// Document store
	docs, closeDocs, err := docstore.Open(context.Background(), cfg.docstore, pool)
	if err != nil {
		logger.Fatal(err)
	}
	defer func() {
		if err := closeDocs(); err != nil {
			logger.Warnw("error closing document store", "error", err)
		}
	}()
	logger.Infow("document store ready", "driver", cfg.docstore.Driver)

	// Authenticator
	jwtAuthenticator := auth.NewJWTAuthenticator(
		cfg.auth.token.secret,
		cfg.auth.token.refreshSecret,
		cfg.auth.token.iss,
		cfg.auth.token.iss,
		cfg.auth.token.accessTokenExp,
		cfg.auth.token.refreshTokenExp,
	)

	sessions := scs.New()
	sessions.Lifetime = 12 * time.Hour
	sessions.Cookie.Name = "eventadmin_session"
	sessions.Cookie.HttpOnly = true
	sessions.Cookie.SameSite = http.SameSiteLaxMode
	sessions.Cookie.Secure = cfg.env == "production"
	sessions.Cookie.Path = "/"

	templates, err := newTemplateCache()
	if err != nil {
		logger.Fatal(err)
	}

	app := &application{
		config: cfg,
		logger: logger,
		stats: admindashboard.NewAggregator(
			docs,
			admindashboard.WithConcurrency(cfg.dashboard.concurrency),
		),
		identity:      auth.NewProvider(admins.NewRepository(pool), jwtAuthenticator),
		authenticator: jwtAuthenticator,
		rateLimiter: ratelimiter.NewFixedWindowLimiter(
			cfg.rateLimiter.RequestsPerTimeFrame,
			cfg.rateLimiter.TimeFrame,
		),
		sessions:  sessions,
		templates: templates,
		formatter: admindashboard.NewFormatter(cfg.dashboard.currencySymbol, language.English),
	}

	//Metrics collected http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		s := pool.Stat()
		return map[string]int32{
			"total_conns":    s.TotalConns(),
			"idle_conns":     s.IdleConns(),
			"acquired_conns": s.AcquiredConns(),
		}
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	if err := app.run(mux); err != nil {
		logger.Fatal(err)
	}
}
