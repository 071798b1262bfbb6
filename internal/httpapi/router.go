// Package httpapi serves the directory wire contract over HTTP: the reference
// implementation of the live backend the remote client talks to. It owns
// identity (JWT bearer sessions) and drives the document store through
// user-id level operations.
package httpapi

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/example/event-directory/internal/directory"
)

// Store captures the document-store operations the server needs. The
// in-memory backend satisfies it.
type Store interface {
	ResolveLogin(ctx context.Context, email, password string) (directory.User, error)
	ResolveRegister(ctx context.Context, params directory.RegisterParams) (directory.User, error)
	UserByID(ctx context.Context, id string) (directory.User, error)
	Categories(ctx context.Context) ([]directory.EventCategory, error)
	NearbyEvents(ctx context.Context, lat, lng, radiusKm float64) ([]directory.Event, error)
	EventDetail(ctx context.Context, id string) (directory.Event, error)
	CreateEventFor(ctx context.Context, userID string, req directory.CreateEventRequest) (directory.Event, error)
	EventsCreatedByUser(ctx context.Context, userID string) ([]directory.Event, error)
	Attendance(ctx context.Context, eventID string) ([]directory.EventAttendance, error)
	SetAttendanceFor(ctx context.Context, userID, eventID string, status directory.AttendanceStatus) (directory.EventAttendance, error)
}

// Server bundles the handlers of the wire API.
type Server struct {
	store  Store
	tokens *TokenIssuer
	logger *slog.Logger
}

// NewServer wires the API over a store and a token issuer.
func NewServer(store Store, tokens *TokenIssuer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: store, tokens: tokens, logger: logger}
}

// Router builds the gin engine serving the contract under /api.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.logger))

	api := router.Group("/api")
	{
		api.POST("/auth/login", s.handleLogin)
		api.POST("/auth/register", s.handleRegister)
		api.GET("/categories", s.handleCategories)
		api.GET("/events/near", s.handleNearbyEvents)
		api.GET("/events/:id", s.handleEventDetail)
		api.GET("/events/:id/attendance", s.handleAttendance)
	}

	authorized := api.Group("")
	authorized.Use(requireSession(s.tokens))
	{
		authorized.GET("/auth/session", s.handleSession)
		authorized.POST("/auth/logout", s.handleLogout)
		authorized.POST("/events", s.handleCreateEvent)
		authorized.POST("/events/:id/attendance", s.handleSetAttendance)
		authorized.GET("/me/events", s.handleMyEvents)
	}

	return router
}
