package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/cgdev/tienda-api/internal/config"
	"github.com/cgdev/tienda-api/internal/db"
	"github.com/cgdev/tienda-api/internal/docs"
	"github.com/cgdev/tienda-api/internal/health"
	"github.com/cgdev/tienda-api/internal/httpx"
	"github.com/cgdev/tienda-api/internal/logger"
	"github.com/cgdev/tienda-api/internal/products"
	"github.com/cgdev/tienda-api/internal/sales"
)

// appPool es lo que la app necesita del pool de DB.
// Permite testear run/buildRouter sin PostgreSQL.
type appPool interface {
	Ping(ctx context.Context) error
	Close()
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// appDeps agrupa las dependencias reemplazables de run.
type appDeps struct {
	loadConfig     func() (config.Config, error)
	newPool        func(ctx context.Context, databaseURL string) (appPool, error)
	listenAndServe func(addr string, handler http.Handler) error
}

var (
	loadConfigFn = config.Load
	newPoolFn    = func(ctx context.Context, databaseURL string) (appPool, error) {
		return db.NewPool(ctx, databaseURL)
	}
	listenAndServeFn = http.ListenAndServe
	fatalf           = log.Fatal
)

func main() {
	// .env es opcional: en producción la config llega por entorno.
	_ = godotenv.Load()

	deps := appDeps{
		loadConfig:     loadConfigFn,
		newPool:        newPoolFn,
		listenAndServe: listenAndServeFn,
	}

	if err := run(context.Background(), deps); err != nil {
		fatalf(err)
	}
}

func run(ctx context.Context, deps appDeps) error {
	cfg, err := deps.loadConfig()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Env, cfg.LogLevel)

	pool, err := deps.newPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	router := buildRouter(pool, log)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("iniciando aplicación")
	return deps.listenAndServe(addr, router)
}

func buildRouter(pool appPool, log zerolog.Logger) chi.Router {
	r := chi.NewRouter()

	// Middlewares base para trazabilidad y estabilidad.
	r.Use(httpx.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpx.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	// Errores de routing se manejan a nivel router, con el mismo sobre.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, http.StatusNotFound, "no encontrado.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, http.StatusMethodNotAllowed, "método no permitido.")
	})

	healthHandler := health.New(pool)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	docs.RegisterRoutes(r)

	repository := products.NewRepository(pool)
	service := products.NewService(repository, sales.NewEmbeddedSource(), log)
	products.RegisterRoutes(r, products.NewHandler(service, log))

	return r
}
