package models

import "errors"

// Chat turn request from the UI (or another service)
type TurnRequest struct {
	SessionID     string       `json:"sessionId"`
	Message       string       `json:"message"`
	FormData      *TripProfile `json:"formData"`
	Authenticated bool         `json:"-"`
}

// TurnResult is the response envelope for one conversation turn. Field names
// mirror the generator contract so the UI consumes both with one shape.
type TurnResult struct {
	Response     string            `json:"response"`
	FormData     *TripProfile      `json:"formData"`
	TravelStage  *StageState       `json:"travelStage,omitempty"`
	NextQuestion *FollowUpQuestion `json:"nextQuestion,omitempty"`
	FunctionCall *FunctionCall     `json:"functionCall,omitempty"`
}

// TripProfile is the cumulative record of everything learned about the trip.
// Every field is optional; nil/absent means "not learned yet".
type TripProfile struct {
	Destination       *string            `json:"destination,omitempty"`
	StartDate         *string            `json:"startDate,omitempty"`
	EndDate           *string            `json:"endDate,omitempty"`
	Budget            *string            `json:"budget,omitempty"` // Low/Medium/High
	Accommodation     *string            `json:"accommodation,omitempty"`
	Transportation    *string            `json:"transportation,omitempty"`
	MealType          []string           `json:"mealType,omitempty"`
	Interests         []string           `json:"interests,omitempty"`
	Activities        []string           `json:"activities,omitempty"`
	AvoidTouristy     *bool              `json:"avoidTouristy,omitempty"`
	LocalAreas        []string           `json:"localAreas,omitempty"`
	CulturalInterests []string           `json:"culturalInterests,omitempty"`
	VibeKeywords      []string           `json:"vibeKeywords,omitempty"`
	DietaryNeeds      []string           `json:"dietaryNeeds,omitempty"`
	TravelStyle       []string           `json:"travelStyle,omitempty"`
	RiskConcerns      []string           `json:"riskConcerns,omitempty"`
	PackingChecklist  *PackingChecklist  `json:"packingChecklist,omitempty"`
	SafetyNotes       *string            `json:"safetyNotes,omitempty"`
	EmergencyContacts *EmergencyContacts `json:"emergencyContacts,omitempty"`
	TripStage         *int               `json:"tripStage,omitempty"`

	// Last map suggestions delivered for this trip, across all batches.
	Suggestions []LocationSuggestion `json:"suggestions,omitempty"`
}

type PackingChecklist struct {
	Essentials  []string `json:"essentials"`
	Destination []string `json:"destination"`
	Activities  []string `json:"activities"`
}

type EmergencyContacts struct {
	Local         []string `json:"local"`
	International []string `json:"international"`
}

// StageState is the advisory planning-stage info attached to a turn.
type StageState struct {
	Current      int      `json:"current"` // 1..6
	Name         string   `json:"name"`
	Progress     float64  `json:"progress"` // clamped to [0,1] before display
	Requirements []string `json:"requirements"`
}

type ConversationTurn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type FollowUpQuestion struct {
	Text           string   `json:"text"`
	Options        []string `json:"options"`
	SelectedOption *string  `json:"selectedOption,omitempty"`
	Context        *string  `json:"context,omitempty"`
}

// LatLng is a [latitude, longitude] pair, serialized as a two-element array
// to match the generator contract.
type LatLng [2]float64

type LocationSuggestion struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Area        string   `json:"area"`
	Type        string   `json:"type"`
	Coordinates LatLng   `json:"coordinates"`
	InsiderTip  string   `json:"insiderTip,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	BestTime    string   `json:"bestTime,omitempty"`
	PriceRange  string   `json:"priceRange,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Batch       int      `json:"batch,omitempty"`
}

type FunctionCall struct {
	Type string   `json:"type"` // currently only "map"
	Data *MapData `json:"data,omitempty"`
}

type MapData struct {
	Coordinates LatLng               `json:"coordinates"`
	Description string               `json:"description"`
	Suggestions []LocationSuggestion `json:"suggestions"`
}

// GeneratorPayload is the single JSON object the generation service is
// contracted to return for every turn.
type GeneratorPayload struct {
	Response     string            `json:"response"`
	TravelStage  *StageState       `json:"travelStage,omitempty"`
	NextQuestion *FollowUpQuestion `json:"nextQuestion,omitempty"`
	FormData     *TripProfile      `json:"formData,omitempty"`
	FunctionCall *FunctionCall     `json:"functionCall,omitempty"`
}

// Caller-visible errors. Generator-side failures are never surfaced as
// errors; they degrade to a fallback TurnResult instead.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnknownStage = errors.New("unknown stage")
)
