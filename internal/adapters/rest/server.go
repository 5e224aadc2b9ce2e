package rest

import (
	"context"
	"fmt"
	"net/http"

	core_port "github.com/Divyanshu-Bhandari/browzfast/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server - наш REST API сервер.
type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

// NewServer создает новый экземпляр сервера.
func NewServer(port string, allowedOrigins []string, favourites *FavouritesHandler, bookmarks *BookmarkHandler, baseLogger core_port.LoggerPort) *Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(baseLogger))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-ID", "X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           300, // 5 минут
	}))

	// Все маршруты приватные: личность пользователя приходит от шлюза.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware)

		r.Route("/favourites", func(r chi.Router) {
			r.Get("/", favourites.ListFavourites)
			r.Post("/", favourites.AddFavourite)
			r.Put("/", favourites.UpdateFavourite)
			r.Delete("/", favourites.DeleteFavourite)
		})
		r.Put("/favouritesReorder", favourites.ReorderFavourites)

		r.Route("/bookmark", func(r chi.Router) {
			r.Get("/", bookmarks.GetBookmark)
			r.Post("/", bookmarks.SetBookmark)
			r.Delete("/", bookmarks.DeleteBookmark)
		})
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	return &Server{
		httpServer: srv,
		logger:     baseLogger,
	}
}

// Handler возвращает корневой роутер (используется в тестах).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start запускает HTTP-сервер.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
