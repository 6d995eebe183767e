// This is the main entry point of the Ghibli catalog backend. It loads
// configuration, connects the database, runs migrations and seeding, wires
// services to handlers, sets up the HTTP router and middleware, and starts
// the HTTP server with graceful shutdown.
//
// @title Ghibli Catalog API
// @version 1.0
// @description REST API for the Ghibli film catalog: films, likes, comments and auth.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/EaRebusa/API-Project-Ghibli-Catalog/apperror"
	"github.com/EaRebusa/API-Project-Ghibli-Catalog/auth"
	"github.com/EaRebusa/API-Project-Ghibli-Catalog/comments"
	"github.com/EaRebusa/API-Project-Ghibli-Catalog/config"
	"github.com/EaRebusa/API-Project-Ghibli-Catalog/db"
	"github.com/EaRebusa/API-Project-Ghibli-Catalog/films"
	"github.com/EaRebusa/API-Project-Ghibli-Catalog/likes"
)

func main() {
	// .env is a development convenience; in production the variables are set
	// directly, so a missing file is only a warning.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pool, err := db.NewPool(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.DB, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed the catalog once from the embedded snapshot.
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := films.Seed(seedCtx, pool); err != nil {
		seedCancel()
		log.Fatalf("Failed to seed films: %v", err)
	}
	seedCancel()

	// Services hold the business logic; handlers translate HTTP to service
	// calls. Dependencies are injected explicitly through constructors.
	authService := auth.NewAuthService(pool, *cfg.Auth)
	authHandlers := auth.NewHandlers(authService)

	filmService := films.NewFilmService(pool)
	filmHandlers := films.NewFilmHandler(filmService)

	commentService := comments.NewCommentService(pool)
	commentHandlers := comments.NewCommentHandler(commentService)

	likeService := likes.NewLikeService(pool)
	likeHandlers := likes.NewLikeHandler(likeService)

	r := chi.NewRouter()

	// Chi requires all middleware to be registered before any routes.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Panic recovery that speaks the apperror response format.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Printf("Panic: %+v", rvr)
					writeError(ww, apperror.NewInternalError("internal server error", nil))
				}
			}()
			next.ServeHTTP(ww, r)
		})
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandlers.HandleRegister())
		r.Post("/login", authHandlers.HandleLogin())
	})

	r.Route("/api/films", func(r chi.Router) {
		filmHandlers.RegisterRoutes(r)
	})

	// Comment routes run behind the optional auth variant: a valid token
	// attributes the comment, anything else proceeds anonymously.
	r.Route("/api/comments", func(r chi.Router) {
		r.Use(auth.AttachUserIfPresent(authService))
		commentHandlers.RegisterRoutes(r)
	})

	// Like reads are public; the increment route declares the mandatory
	// variant itself.
	r.Route("/api/likes", func(r chi.Router) {
		likeHandlers.RegisterRoutes(r, auth.RequireAuth(authService))
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}

// writeError is a local helper for the panic recovery middleware so even
// panics produce the standard apperror response shape.
func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(appErr.ToResponse()); err != nil {
		http.Error(w, `{"error":"Failed to encode error response"}`, http.StatusInternalServerError)
	}
}
