package api

import (
	"fmt"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "github.com/unicorn-byte/emergency-card/docs"

	"github.com/rs/cors"
	"github.com/unicorn-byte/emergency-card/internal/api/handlers"
	"github.com/unicorn-byte/emergency-card/internal/api/middleware"
	"github.com/unicorn-byte/emergency-card/internal/config"
	"github.com/unicorn-byte/emergency-card/internal/logger"
)

func SetupRouter() http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(config.Envs.CorsConfig)

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	authMux := http.NewServeMux()
	authMux.HandleFunc("/sign-up", handlers.RegisterUser)
	authMux.HandleFunc("/login", handlers.LoginUser)
	authMux.HandleFunc("/google/login", handlers.HandleGoogleLogin)
	authMux.HandleFunc("/google/callback", handlers.HandleGoogleCallback)
	// /api/v1/auth/ wins prefix matching over /api/v1/, so the
	// session-scoped auth endpoints get the middleware individually.
	authMux.Handle("GET /me", middleware.AuthMiddleware(http.HandlerFunc(handlers.Me)))
	authMux.Handle("POST /logout", middleware.AuthMiddleware(http.HandlerFunc(handlers.Logout)))

	mainMux.Handle("/api/v1/auth/",
		http.StripPrefix("/api/v1/auth", authMux),
	)

	// The card endpoints any QR scanner can reach. No authentication;
	// the public id is the only credential.
	mainMux.HandleFunc("GET /emergency/{publicID}", handlers.RedirectToCardView)
	mainMux.HandleFunc("GET /emergency/{publicID}/view", handlers.ViewCardHTML)
	mainMux.HandleFunc("GET /emergency/{publicID}/pdf", handlers.DownloadCardPDF)
	mainMux.HandleFunc("GET /api/emergency/{publicID}", handlers.GetPublicCard)

	// ---------- PROTECTED ROUTES ----------
	protectedMux := http.NewServeMux()

	protectedMux.HandleFunc("POST /profile", handlers.CreateProfile)
	protectedMux.HandleFunc("GET /profile", handlers.GetMyProfile)
	protectedMux.HandleFunc("PATCH /profile", handlers.UpdateProfile)
	protectedMux.HandleFunc("DELETE /profile", handlers.DeleteProfile)
	protectedMux.HandleFunc("GET /profile/qr", handlers.GetQRCode)
	protectedMux.HandleFunc("GET /profile/card", handlers.GetCardDownload)

	protectedMux.HandleFunc("POST /profile/contacts", handlers.AddContact)
	protectedMux.HandleFunc("GET /profile/contacts", handlers.ListContacts)
	protectedMux.HandleFunc("DELETE /profile/contacts/{contactID}", handlers.DeleteContact)

	mainMux.Handle("/api/v1/",
		http.StripPrefix(
			"/api/v1",
			middleware.AuthMiddleware(protectedMux),
		),
	)

	logger.L.Info("Router initialized")
	handler := c.Handler(mainMux)
	handler = middleware.Logger(handler)
	return handler
}
