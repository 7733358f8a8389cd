package transport

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/hiddengem/nova-travel/internal/models"
	"github.com/hiddengem/nova-travel/internal/storage"
)

type createLocationRequest struct {
	Name        string               `json:"name" binding:"required"`
	Type        string               `json:"type"`
	InsiderTip  *string              `json:"insiderTip"`
	Coordinates storage.Coordinates  `json:"coordinates" binding:"required"`
}

func (s *HTTPServer) handleCreateLocation(c *gin.Context) {
	userID := s.currentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var request createLocationRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	saved, err := s.locations.Create(c.Request.Context(), &storage.SavedLocation{
		UserID:      userID,
		Name:        request.Name,
		Type:        request.Type,
		InsiderTip:  request.InsiderTip,
		Coordinates: datatypes.NewJSONType(request.Coordinates),
	})
	if err != nil {
		s.log.Error("location save failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving location"})
		return
	}

	c.JSON(http.StatusOK, saved)
}

func (s *HTTPServer) handleListLocations(c *gin.Context) {
	userID := s.currentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	locations, err := s.locations.ListByUser(c.Request.Context(), userID)
	if err != nil {
		s.log.Error("location list failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching saved locations"})
		return
	}

	c.JSON(http.StatusOK, locations)
}

func (s *HTTPServer) handleDeleteLocation(c *gin.Context) {
	userID := s.currentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	locationID := c.Query("id")
	if locationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Location ID is required"})
		return
	}

	err := s.locations.Delete(c.Request.Context(), locationID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Location not found or unauthorized"})
		return
	}
	if err != nil {
		s.log.Error("location delete failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting location"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *HTTPServer) handleListTripPlans(c *gin.Context) {
	userID := s.currentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	plans, err := s.plans.ListByUser(c.Request.Context(), userID)
	if err != nil {
		s.log.Error("trip plan list failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching trip plans"})
		return
	}

	c.JSON(http.StatusOK, plans)
}

// handleCreateTripPlan persists a trip profile snapshot for the logged-in
// user. Missing fields take the same defaults the UI relied on.
func (s *HTTPServer) handleCreateTripPlan(c *gin.Context) {
	userID := s.currentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var profile models.TripProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	plan, err := s.plans.Create(c.Request.Context(), planFromProfile(&profile, userID))
	if err != nil {
		s.log.Error("trip plan save failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving trip plan"})
		return
	}

	c.JSON(http.StatusOK, plan)
}

func planFromProfile(profile *models.TripProfile, userID string) *storage.TripPlan {
	plan := &storage.TripPlan{
		UserID:            userID,
		Destination:       deref(profile.Destination),
		StartDate:         parseDate(profile.StartDate),
		EndDate:           parseDate(profile.EndDate),
		Budget:            deref(profile.Budget),
		Accommodation:     orDefault(deref(profile.Accommodation), "Not specified"),
		Transportation:    orDefault(deref(profile.Transportation), "Not specified"),
		Interests:         sliceOrEmpty(profile.Interests),
		MealType:          sliceOrEmpty(profile.MealType),
		Activities:        sliceOrEmpty(profile.Activities),
		LocalAreas:        sliceOrEmpty(profile.LocalAreas),
		CulturalInterests: sliceOrEmpty(profile.CulturalInterests),
		VibeKeywords:      sliceOrEmpty(profile.VibeKeywords),
		DietaryNeeds:      sliceOrEmpty(profile.DietaryNeeds),
		TravelStyle:       sliceOrEmpty(profile.TravelStyle),
		RiskConcerns:      sliceOrEmpty(profile.RiskConcerns),
		SafetyNotes:       deref(profile.SafetyNotes),
	}

	if profile.AvoidTouristy != nil {
		plan.AvoidTouristy = *profile.AvoidTouristy
	}
	if profile.TripStage != nil {
		plan.TripStage = *profile.TripStage
	}

	checklist := models.PackingChecklist{Essentials: []string{}, Destination: []string{}, Activities: []string{}}
	if profile.PackingChecklist != nil {
		checklist = *profile.PackingChecklist
	}
	plan.PackingChecklist = datatypes.NewJSONType(checklist)

	contacts := models.EmergencyContacts{Local: []string{}, International: []string{}}
	if profile.EmergencyContacts != nil {
		contacts = *profile.EmergencyContacts
	}
	plan.EmergencyContacts = datatypes.NewJSONType(contacts)

	return plan
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func sliceOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func parseDate(s *string) time.Time {
	if s == nil {
		return time.Now()
	}
	parsed, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return time.Now()
	}
	return parsed
}
