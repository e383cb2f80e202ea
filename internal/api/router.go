package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/avilam/mensajeria-be/internal/api/handlers"
	"github.com/avilam/mensajeria-be/internal/auth"
	"github.com/avilam/mensajeria-be/internal/config"
	"github.com/avilam/mensajeria-be/internal/services"
	"github.com/avilam/mensajeria-be/internal/storage"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(cfg *config.Config, tokens *auth.TokenManager, uploads *storage.UploadStore, userService services.UserServiceProvider, messageService services.MessageServiceProvider) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	messageHandler := handlers.NewMessageHandler(messageService, uploads)

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", userHandler.List)
		r.Post("/", userHandler.Create)
		r.Post("/login", userHandler.Login)

		r.Post("/messages", messageHandler.Send)
		r.Get("/messages/between/{user1Id}/{user2Id}", messageHandler.Conversation)
		r.Post("/uploadimage", messageHandler.Upload)

		// Profile fetch is the only protected route; the middleware is
		// reusable for any route group.
		r.Group(func(r chi.Router) {
			r.Use(tokens.Middleware())
			r.Get("/profile/{id}", userHandler.Profile)
		})

		r.Get("/{id}", userHandler.Get)
		r.Put("/{id}", userHandler.Update)
		r.Delete("/{id}", userHandler.Delete)
	})

	// Stored images are served back by their generated names.
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploads.Dir()))))

	return r
}
