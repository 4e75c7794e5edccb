package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"

	_ "prolist/docs"
	"prolist/pkg/catalog"
	"prolist/pkg/catalog/memory"
	pg "prolist/pkg/catalog/postgres"
	"prolist/pkg/list"
	"prolist/pkg/logger"
	"prolist/pkg/otel"
	"prolist/pkg/suggest"
)

var (
	log           *logger.Logger
	tracer        trace.Tracer
	redisClient   *redis.Client
	source        catalog.Source
	mutator       list.Mutator
	suggestions   *suggest.Service
	adminPassword string
)

// @title ProList API
// @version 1.0
// @description API for the ProList shopping list
// @host localhost:8443
// @BasePath /
func main() {
	log = logger.New(os.Stdout, logger.LevelInfo, "prolist", otel.GetTraceID)
	defer log.Sync()

	ctx := context.Background()

	tp, shutdown, err := otel.InitTracing(log, otel.Config{ServiceName: "prolist", Host: os.Getenv("OTEL_HOST"), Probability: 1.0})
	if err != nil {
		log.Error(ctx, "init tracing", "error", err)
		os.Exit(1)
	}
	defer shutdown(ctx)
	tracer = tp.Tracer("prolist")

	// Catalog source: a remote sheet when configured, otherwise a local
	// repository the admin routes may edit.
	if url := os.Getenv("CATALOG_URL"); url != "" {
		source = catalog.NewRemote(url, &http.Client{Timeout: 10 * time.Second}, 5*time.Minute, log)
		log.Info(ctx, "using remote catalog", "url", url)
	} else if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			log.Error(ctx, "db connect", "error", err)
			os.Exit(1)
		}
		if _, err := db.Exec("CREATE TABLE IF NOT EXISTS items (id TEXT PRIMARY KEY, name TEXT NOT NULL, position SERIAL)"); err != nil {
			log.Error(ctx, "create table", "error", err)
			os.Exit(1)
		}
		local := catalog.NewLocal(pg.New(db), log)
		source, mutator = local, local
		log.Info(ctx, "using postgres catalog")
	} else {
		local := catalog.NewLocal(memory.New(), log)
		source, mutator = local, local
		log.Info(ctx, "using in-memory catalog")
	}

	redisClient = redis.NewClient(&redis.Options{Addr: os.Getenv("REDIS_ADDR")})
	adminPassword = os.Getenv("ADMIN_PASSWORD")

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		client, err := suggest.NewGemini(ctx, key, os.Getenv("GEMINI_MODEL"))
		if err != nil {
			log.Error(ctx, "init gemini", "error", err)
			os.Exit(1)
		}
		suggestions = suggest.NewService(client, log)
	} else {
		log.Warn(ctx, "GEMINI_API_KEY not set, suggestions disabled")
	}

	r := mux.NewRouter()
	r.Use(traceMiddleware)

	r.HandleFunc("/consent", giveConsentHandler).Methods(http.MethodPost)
	r.HandleFunc("/items", listItemsHandler).Methods(http.MethodGet)

	r.HandleFunc("/list", getListHandler).Methods(http.MethodGet)
	r.HandleFunc("/list", clearListHandler).Methods(http.MethodDelete)
	r.HandleFunc("/list/items/{id}", updateQuantityHandler).Methods(http.MethodPut)
	r.HandleFunc("/list/quantities", setQuantitiesHandler).Methods(http.MethodPut)
	r.HandleFunc("/list/notes", updateNotesHandler).Methods(http.MethodPut)
	r.HandleFunc("/list/orders", saveOrderHandler).Methods(http.MethodPost)
	r.HandleFunc("/list/export", exportHandler).Methods(http.MethodPost)

	r.HandleFunc("/suggest/items", suggestItemsHandler).Methods(http.MethodPost)
	r.HandleFunc("/suggest/order", suggestOrderHandler).Methods(http.MethodPost)

	r.HandleFunc("/admin/login", adminLoginHandler).Methods(http.MethodPost)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(adminAuthMiddleware)
	admin.HandleFunc("/items", addItemHandler).Methods(http.MethodPost)
	admin.HandleFunc("/items/{id}", deleteItemHandler).Methods(http.MethodDelete)

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8443"
	}
	log.Info(ctx, "listening", "addr", addr)
	if err := http.ListenAndServeTLS(addr, "certs/server.crt", "certs/server.key", r); err != nil {
		log.Error(ctx, "server closed", "error", err)
	}
}

func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.InjectTracing(r.Context(), tracer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
