package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/avelasco/taskapi/internal/auth"
	"github.com/avelasco/taskapi/internal/config"
	"github.com/avelasco/taskapi/internal/db"
	"github.com/avelasco/taskapi/internal/handlers"
	"github.com/avelasco/taskapi/internal/middleware"
	"github.com/avelasco/taskapi/internal/policy"
	"github.com/avelasco/taskapi/internal/repository"
	"github.com/avelasco/taskapi/internal/slogx"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slogx.New(slogx.Config{
		Service: "taskapi",
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	dbConn, err := db.Connect(cfg)
	if err != nil {
		logger.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	if err := db.Migrate(dbConn); err != nil {
		logger.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	users := repository.NewUserRepository(dbConn)
	tasks := repository.NewTaskRepository(dbConn)
	tokens := auth.NewTokenService(cfg.SecretKey, cfg.TokenTTL)
	gate := policy.NewAuthorizer(users)

	h := handlers.NewHandler(users, tasks, gate, tokens)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(slogx.HTTPMiddleware(logger))

	// Public
	r.Post("/auth/create_user", h.Auth.CreateUser)
	r.Post("/auth/token", h.Auth.Token)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator(tokens))

		r.Get("/", h.Tasks.List)
		r.Post("/todo", h.Tasks.Create)
		r.Get("/todo/{id}", h.Tasks.Get)
		r.Put("/todo/{id}", h.Tasks.Update)
		r.Delete("/todo/{id}", h.Tasks.Delete)

		r.Get("/admin/todo", h.Admin.ListAll)
		r.Delete("/admin/todo/{id}", h.Admin.Delete)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "err", err)
		os.Exit(1)
	}

	logger.Info("server exited")
}
