package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aperture-backend/internal/admin"
	"aperture-backend/internal/auth"
	"aperture-backend/internal/blogs"
	"aperture-backend/internal/cache"
	"aperture-backend/internal/config"
	"aperture-backend/internal/contact"
	"aperture-backend/internal/db"
	"aperture-backend/internal/media"
	"aperture-backend/internal/middleware"
	"aperture-backend/internal/notifications"
	"aperture-backend/internal/reservations"
	"aperture-backend/internal/validation"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected")
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis connected", slog.String("addr", cfg.RedisAddr))
		cacheStore = redisCache
	}

	var jwtManager *auth.Manager
	if cfg.JWTSecret != "" {
		jwtManager = &auth.Manager{
			Secret:     []byte(cfg.JWTSecret),
			AccessTTL:  time.Duration(cfg.AccessTTLMinutes) * time.Minute,
			RefreshTTL: time.Duration(cfg.RefreshTTLMinutes) * time.Minute,
			Issuer:     "aperture-backend",
		}
	}

	mailer := notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName, cfg.BrevoSandbox)
	if mailer == nil {
		logger.Info("brevo mailer disabled")
	} else {
		logger.Info("brevo mailer enabled", slog.String("sender", cfg.BrevoSenderEmail), slog.Bool("sandbox", cfg.BrevoSandbox))
	}

	val := validation.New()
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second

	reservationsRepo := reservations.NewRepository(cols.Reservations)
	reservationsService := reservations.NewService(reservationsRepo, cfg.Timezone)
	var reservationMailer reservations.ReservationMailer
	if mailer != nil {
		reservationMailer = mailer
	}
	reservationsHandler := reservations.NewHandler(reservationsService, val, logger, cacheStore, cacheTTL, reservationMailer)

	blogsRepo := blogs.NewRepository(cols.Blogs)
	blogsService := blogs.NewService(blogsRepo, cfg.Timezone)
	blogsHandler := blogs.NewHandler(blogsService, val, logger, cacheStore, cacheTTL)

	mediaRepo := media.NewRepository(cols.Media)
	mediaService := media.NewService(mediaRepo, cfg.Timezone)
	mediaHandler := media.NewHandler(mediaService, val, logger, cacheStore, cacheTTL)

	contactRepo := contact.NewRepository(cols.ContactMessages)
	contactService := contact.NewService(contactRepo, cfg.Timezone)
	contactHandler := contact.NewHandler(contactService, val, logger)

	adminHandler := admin.NewHandler(cols.Users, jwtManager, val, logger, cfg.AdminSetupKey, cfg.CookieSecure, cfg.Timezone)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigin))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	reservationsLimiter := middleware.NewRateLimiter(cfg.RateLimitReservations, time.Duration(cfg.RateLimitWindowSec)*time.Second)
	contactLimiter := middleware.NewRateLimiter(cfg.RateLimitContact, time.Duration(cfg.RateLimitWindowSec)*time.Second)

	adminAuth := middleware.AdminAuth(cfg.AdminAPIKey, jwtManager)

	r.Route("/api", func(api chi.Router) {
		api.Get("/reservations", reservationsHandler.List)
		api.Get("/reservations/calendar", reservationsHandler.Calendar)
		api.With(reservationsLimiter.Middleware).Post("/reservations", reservationsHandler.Create)
		api.With(adminAuth).Put("/reservations/{id}", reservationsHandler.UpdateStatus)
		api.With(adminAuth).Delete("/reservations/{id}", reservationsHandler.Delete)

		api.Get("/blogs", blogsHandler.PublicList)
		api.Get("/blogs/{slug}", blogsHandler.PublicGetBySlug)

		api.Get("/media", mediaHandler.List)
		api.Get("/media/{id}", mediaHandler.Get)

		api.With(contactLimiter.Middleware).Post("/contact", contactHandler.Create)

		api.Route("/admin", func(adminRouter chi.Router) {
			adminRouter.Post("/register", adminHandler.Register)
			adminRouter.Post("/login", adminHandler.Login)
			adminRouter.Post("/refresh", adminHandler.Refresh)
			adminRouter.Post("/logout", adminHandler.Logout)

			// chi requires middlewares before routes, so the protected
			// surface lives on a sub-router.
			adminRouter.Group(func(protected chi.Router) {
				protected.Use(adminAuth)

				protected.Put("/reservations/{id}", reservationsHandler.UpdateStatus)
				protected.Delete("/reservations/{id}", reservationsHandler.Delete)

				protected.Get("/blogs", blogsHandler.AdminList)
				protected.Get("/blogs/stats", blogsHandler.AdminStats)
				protected.Get("/blogs/{id}", blogsHandler.AdminGet)
				protected.Post("/blogs", blogsHandler.AdminCreate)
				protected.Put("/blogs/{id}", blogsHandler.AdminUpdate)
				protected.Delete("/blogs/{id}", blogsHandler.AdminDelete)

				protected.Post("/media", mediaHandler.AdminCreate)
				protected.Put("/media/{id}", mediaHandler.AdminUpdate)
				protected.Delete("/media/{id}", mediaHandler.AdminDelete)

				protected.Get("/contact", contactHandler.AdminList)
				protected.Get("/contact/stats", contactHandler.AdminStats)
				protected.Get("/contact/{id}", contactHandler.AdminGet)
				protected.Patch("/contact/{id}/status", contactHandler.AdminUpdateStatus)
				protected.Delete("/contact/{id}", contactHandler.AdminDelete)

				protected.Post("/users", adminHandler.CreateUser)
				protected.Patch("/users/{id}/password", adminHandler.UpdateUserPassword)
			})
		})
	})

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}
