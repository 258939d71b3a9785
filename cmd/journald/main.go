package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/classtrack/journal/internal/api/http"
	"github.com/classtrack/journal/internal/audit"
	auth "github.com/classtrack/journal/internal/auth/middleware"
	"github.com/classtrack/journal/internal/config"
	"github.com/classtrack/journal/internal/db"
	"github.com/classtrack/journal/internal/journal"
	"github.com/classtrack/journal/internal/rbac"
	"github.com/classtrack/journal/internal/scoring"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := journal.NewSQLStore(dbh)
	svc := journal.NewService(store, audit.NewRecorder(dbh))

	seedSettings(ctx, store, cfg.SeedPeriods)

	// --- Auth (local JWT) ---
	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh, cfg.AdminUser, cfg.AdminPassHash))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Students may read their own score; staff may read anyone's.
		pr.With(rbac.RequireOwnerOr("score:view-all", ownsStudentParam)).
			Get("/students/{studentID}/score", api.StudentScoreHandler(svc))

		pr.With(rbac.Require("attendance:record")).
			Post("/attendance", api.RecordAttendanceHandler(svc))
		pr.With(rbac.Require("attendance:record")).
			Post("/attendance/bulk", api.RecordAttendanceBulkHandler(svc))

		pr.With(rbac.Require("grade:assign")).
			Post("/labs/grades", api.SubmitLabGradeHandler(svc))

		pr.With(rbac.Require("activity:record")).
			Post("/activity", api.AwardActivityHandler(svc))
		pr.With(rbac.Require("activity:record")).
			Post("/activity/batch", api.AwardActivityBatchHandler(svc))
		pr.With(rbac.Require("activity:record")).
			Delete("/activity/{activityID}", api.RevokeActivityHandler(svc))

		pr.With(rbac.Require("transfer:record")).
			Post("/transfers", api.RecordTransferHandler(svc))

		pr.With(rbac.Require("settings:view")).
			Get("/settings/{period}", api.GetSettingsHandler(svc))
		pr.With(rbac.Require("settings:edit")).
			Put("/settings/{period}", api.PutSettingsHandler(svc))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

// ownsStudentParam grants students access to their own score route.
func ownsStudentParam(r *http.Request) bool {
	sub := auth.SubjectFromContext(r.Context())
	return sub != "" && sub == strings.TrimSpace(chi.URLParam(r, "studentID"))
}

// seedSettings installs stock period settings the first time the server
// runs against an empty database. Existing rows are never touched.
func seedSettings(ctx context.Context, store journal.Store, periods []string) {
	for _, p := range periods {
		if _, err := store.GetSettings(ctx, p); err == nil {
			continue
		} else if !journal.IsSettingsNotFound(err) {
			log.Printf("seed settings %q: %v", p, err)
			continue
		}
		if err := store.PutSettings(ctx, scoring.DefaultSettings(p)); err != nil {
			log.Printf("seed settings %q: %v", p, err)
			continue
		}
		log.Printf("seeded default settings for period %q", p)
	}
}
