package transport

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hiddengem/nova-travel/internal/handlers"
	"github.com/hiddengem/nova-travel/internal/logger"
	"github.com/hiddengem/nova-travel/internal/models"
	"github.com/hiddengem/nova-travel/internal/stages"
	"github.com/hiddengem/nova-travel/internal/storage"
)

const userCookie = "userId"

// HTTPServer exposes the chat orchestrator and the persistence collaborators
// over REST.
type HTTPServer struct {
	chat      *handlers.ChatHandler
	users     *storage.UserRepo
	locations *storage.LocationRepo
	plans     *storage.TripPlanRepo
	insights  *storage.InsightRepo
	log       *logger.Logger
}

func NewHTTPServer(
	chat *handlers.ChatHandler,
	users *storage.UserRepo,
	locations *storage.LocationRepo,
	plans *storage.TripPlanRepo,
	insights *storage.InsightRepo,
	log *logger.Logger,
) *HTTPServer {
	return &HTTPServer{
		chat:      chat,
		users:     users,
		locations: locations,
		plans:     plans,
		insights:  insights,
		log:       log,
	}
}

func (s *HTTPServer) Router(allowOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.POST("/chat", s.handleChat)

		api.POST("/auth/register", s.handleRegister)
		api.POST("/auth/login", s.handleLogin)
		api.POST("/auth/logout", s.handleLogout)
		api.GET("/auth/check", s.handleAuthCheck)

		api.GET("/saved-locations", s.handleListLocations)
		api.POST("/saved-locations", s.handleCreateLocation)
		api.DELETE("/saved-locations", s.handleDeleteLocation)

		api.GET("/trip-plans", s.handleListTripPlans)
		api.POST("/trip-plans", s.handleCreateTripPlan)

		api.GET("/hidden-gems", s.handleSearchInsights)
		api.GET("/stages/:number", s.handleDescribeStage)

		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now()})
		})
	}

	return r
}

// currentUserID resolves the authenticated user from the session cookie,
// returning "" for anonymous callers.
func (s *HTTPServer) currentUserID(c *gin.Context) string {
	id, err := c.Cookie(userCookie)
	if err != nil {
		return ""
	}
	return id
}

func (s *HTTPServer) handleChat(c *gin.Context) {
	var request models.TurnRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.SessionID == "" {
		request.SessionID = "default"
	}
	request.Authenticated = s.currentUserID(c) != ""

	result, err := s.chat.ProcessTurn(c.Request.Context(), &request)
	if errors.Is(err, models.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.log.Error("chat turn failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *HTTPServer) handleDescribeStage(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stage number"})
		return
	}

	def, err := stages.Describe(number)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"number":      number,
		"name":        def.Name,
		"description": def.Description,
		"questions":   def.Questions,
		"checklist":   def.Checklist,
	})
}

func (s *HTTPServer) handleSearchInsights(c *gin.Context) {
	filter := storage.InsightFilter{
		City:    c.Query("city"),
		Country: c.Query("country"),
		Type:    c.Query("type"),
		Tags:    c.QueryArray("tags"),
	}

	results, err := s.insights.Search(c.Request.Context(), filter)
	if err != nil {
		s.log.Error("insight search failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Error searching hidden gems"})
		return
	}

	message := "Found hidden gems."
	if len(results) == 0 {
		message = "No hidden gems found. Consider using our AI to generate personalized recommendations."
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"results": results,
		"message": message,
	})
}
