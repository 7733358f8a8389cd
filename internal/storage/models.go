package storage

import (
	"time"

	"gorm.io/datatypes"

	"github.com/hiddengem/nova-travel/internal/models"
)

// Coordinates is the stored {lat,lng} shape used for saved locations.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

type SavedLocation struct {
	ID          string                          `gorm:"primaryKey" json:"id"`
	UserID      string                          `gorm:"index;not null" json:"userId"`
	Name        string                          `gorm:"not null" json:"name"`
	Type        string                          `json:"type"`
	InsiderTip  *string                         `json:"insiderTip,omitempty"`
	Coordinates datatypes.JSONType[Coordinates] `json:"coordinates"`
	CreatedAt   time.Time                       `json:"createdAt"`
}

type TripPlan struct {
	ID                string                                       `gorm:"primaryKey" json:"id"`
	UserID            string                                       `gorm:"index;not null" json:"userId"`
	Destination       string                                       `json:"destination"`
	StartDate         time.Time                                    `json:"startDate"`
	EndDate           time.Time                                    `json:"endDate"`
	Budget            string                                       `json:"budget"`
	Accommodation     string                                       `json:"accommodation"`
	Transportation    string                                       `json:"transportation"`
	Interests         datatypes.JSONSlice[string]                  `json:"interests"`
	MealType          datatypes.JSONSlice[string]                  `json:"mealType"`
	Activities        datatypes.JSONSlice[string]                  `json:"activities"`
	AvoidTouristy     bool                                         `json:"avoidTouristy"`
	LocalAreas        datatypes.JSONSlice[string]                  `json:"localAreas"`
	CulturalInterests datatypes.JSONSlice[string]                  `json:"culturalInterests"`
	VibeKeywords      datatypes.JSONSlice[string]                  `json:"vibeKeywords"`
	DietaryNeeds      datatypes.JSONSlice[string]                  `json:"dietaryNeeds"`
	TravelStyle       datatypes.JSONSlice[string]                  `json:"travelStyle"`
	RiskConcerns      datatypes.JSONSlice[string]                  `json:"riskConcerns"`
	PackingChecklist  datatypes.JSONType[models.PackingChecklist]  `json:"packingChecklist"`
	SafetyNotes       string                                       `json:"safetyNotes"`
	EmergencyContacts datatypes.JSONType[models.EmergencyContacts] `json:"emergencyContacts"`
	TripStage         int                                          `json:"tripStage"`
	CreatedAt         time.Time                                    `json:"createdAt"`
}

// LocalInsight is a curated hidden-gem entry, searchable by city, country,
// type and tags. Verified entries rank first.
type LocalInsight struct {
	ID          string                      `gorm:"primaryKey" json:"id"`
	Title       string                      `gorm:"not null" json:"title"`
	Description string                      `json:"description"`
	City        string                      `gorm:"index" json:"city"`
	Country     string                      `gorm:"index" json:"country"`
	Type        string                      `json:"type"`
	Address     string                      `json:"address"`
	Lat         float64                     `json:"lat"`
	Lng         float64                     `json:"lng"`
	InsiderTip  string                      `json:"insiderTip"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	Verified    bool                        `json:"verified"`
	CreatedAt   time.Time                   `json:"createdAt"`
}
