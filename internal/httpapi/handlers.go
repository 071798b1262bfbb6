package httpapi

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/example/event-directory/internal/directory"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type attendanceRequest struct {
	Status directory.AttendanceStatus `json:"status"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request body")
		return
	}

	user, err := s.store.ResolveLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	s.respondWithSession(c, user)
}

func (s *Server) handleRegister(c *gin.Context) {
	var params directory.RegisterParams
	if err := c.ShouldBindJSON(&params); err != nil {
		writeBadRequest(c, "invalid request body")
		return
	}

	user, err := s.store.ResolveRegister(c.Request.Context(), params)
	if err != nil {
		writeError(c, err)
		return
	}
	s.respondWithSession(c, user)
}

// handleSession reports whether the presented session is still valid and
// refreshes its token.
func (s *Server) handleSession(c *gin.Context) {
	user, err := s.store.UserByID(c.Request.Context(), sessionUserID(c))
	if err != nil {
		writeError(c, directory.ErrUnauthorized)
		return
	}
	s.respondWithSession(c, user)
}

// handleLogout exists for contract symmetry; JWT sessions expire on their
// own, so there is no server-side state to drop.
func (s *Server) handleLogout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (s *Server) handleCategories(c *gin.Context) {
	categories, err := s.store.Categories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if len(categories) == 0 {
		categories = directory.DefaultCategories()
	}
	c.JSON(http.StatusOK, categories)
}

func (s *Server) handleNearbyEvents(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	radius, radiusErr := strconv.ParseFloat(c.Query("radiusKm"), 64)
	if latErr != nil || lngErr != nil || radiusErr != nil {
		writeBadRequest(c, "lat, lng, and radiusKm must be numbers")
		return
	}

	events, err := s.store.NearbyEvents(c.Request.Context(), lat, lng, radius)
	if err != nil {
		writeError(c, err)
		return
	}

	// The live contract orders nearby events by start time ascending.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTimeUTC.Before(events[j].StartTimeUTC)
	})
	c.JSON(http.StatusOK, events)
}

func (s *Server) handleEventDetail(c *gin.Context) {
	event, err := s.store.EventDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (s *Server) handleCreateEvent(c *gin.Context) {
	var req directory.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request body")
		return
	}

	event, err := s.store.CreateEventFor(c.Request.Context(), sessionUserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (s *Server) handleAttendance(c *gin.Context) {
	records, err := s.store.Attendance(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) handleSetAttendance(c *gin.Context) {
	var req attendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request body")
		return
	}
	if !req.Status.Valid() {
		writeError(c, &directory.ValidationError{FieldErrors: map[string]string{"status": "unknown attendance status"}})
		return
	}

	record, err := s.store.SetAttendanceFor(c.Request.Context(), sessionUserID(c), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) handleMyEvents(c *gin.Context) {
	events, err := s.store.EventsCreatedByUser(c.Request.Context(), sessionUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	// Own events list newest start first.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTimeUTC.After(events[j].StartTimeUTC)
	})
	c.JSON(http.StatusOK, events)
}

func (s *Server) respondWithSession(c *gin.Context, user directory.User) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, directory.AuthResponse{Token: token, User: user})
}
