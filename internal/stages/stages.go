package stages

import (
	"fmt"

	"github.com/hiddengem/nova-travel/internal/models"
)

// StageDefinition is the static description of one planning stage. The table
// is immutable process-wide data; callers must not modify returned slices.
type StageDefinition struct {
	Name        string
	Description string
	Questions   []string
	Checklist   []string
}

const (
	First = 1
	Last  = 6
)

var definitions = map[int]StageDefinition{
	1: {
		Name:        "Personal Style & Goals",
		Description: "Understanding travel preferences and objectives",
		Questions: []string{
			"What type of travel experience are you looking for? (relaxation, adventure, cultural immersion, etc.)",
			"What are your main goals for this trip?",
			"How do you prefer to explore new places?",
			"What past travel experiences have you enjoyed the most?",
		},
		Checklist: []string{
			"Identify primary travel style",
			"Define trip objectives",
			"List preferred activities",
			"Consider past travel experiences",
		},
	},
	2: {
		Name:        "Destination Planning",
		Description: "Matching destinations to preferences",
		Questions: []string{
			"What climate do you prefer for your trip?",
			"Are you interested in urban exploration or natural landscapes?",
			"How important is local cuisine to your travel experience?",
			"What's your comfort level with different languages and cultures?",
		},
		Checklist: []string{
			"Match destinations to travel style",
			"Consider seasonal factors",
			"Research local cultural aspects",
			"Check travel advisories",
		},
	},
	3: {
		Name:        "Transportation & Logistics",
		Description: "Planning movement and practical arrangements",
		Questions: []string{
			"What's your preferred mode of transportation?",
			"How comfortable are you with public transit in foreign places?",
			"Would you consider renting a vehicle?",
			"What's your approach to local transportation?",
		},
		Checklist: []string{
			"Research transportation options",
			"Compare costs and convenience",
			"Consider local transport apps",
			"Plan airport/station transfers",
		},
	},
	4: {
		Name:        "Essential Preparations",
		Description: "Document and packing preparation",
		Questions: []string{
			"Do you have all necessary travel documents?",
			"Are your documents up to date?",
			"Do you need any specific gear for planned activities?",
			"Have you considered health requirements?",
		},
		Checklist: []string{
			"Check passport validity",
			"Research visa requirements",
			"List essential documents",
			"Create packing list",
		},
	},
	5: {
		Name:        "Itinerary Creation",
		Description: "Building a flexible daily schedule",
		Questions: []string{
			"How do you like to structure your days while traveling?",
			"Do you prefer planned activities or spontaneous exploration?",
			"What's your ideal balance between activities and rest?",
			"Are there specific experiences you don't want to miss?",
		},
		Checklist: []string{
			"Create daily activity outline",
			"Research opening hours",
			"Plan meal arrangements",
			"Include flexible time blocks",
		},
	},
	6: {
		Name:        "Safety & Contingency",
		Description: "Risk management and emergency planning",
		Questions: []string{
			"Do you have travel insurance?",
			"Are you aware of local emergency numbers?",
			"Have you registered with your embassy?",
			"Do you have backup payment methods?",
		},
		Checklist: []string{
			"Purchase travel insurance",
			"Save emergency contacts",
			"Register with embassy",
			"Create backup plans",
		},
	},
}

// Describe returns the definition for a stage number. Pure and total over
// 1..6; anything else is models.ErrUnknownStage.
func Describe(stage int) (StageDefinition, error) {
	def, ok := definitions[stage]
	if !ok {
		return StageDefinition{}, fmt.Errorf("%w: %d", models.ErrUnknownStage, stage)
	}
	return def, nil
}

// RequirementSatisfied reports whether the requirement at index i of n is
// considered met at the given progress. This is the display approximation
// used by the progress panel, not a completeness check against the profile.
func RequirementSatisfied(progress float64, i, n int) bool {
	if n <= 0 {
		return false
	}
	return progress >= float64(i+1)/float64(n)
}

// guards holds the prerequisite for entering each stage beyond the first.
// A stage may be entered only when every lower stage's guard passes.
var guards = map[int]func(*models.TripProfile) bool{
	2: func(p *models.TripProfile) bool { return len(p.TravelStyle) > 0 || len(p.Interests) > 0 },
	3: func(p *models.TripProfile) bool { return p.Destination != nil && *p.Destination != "" },
	4: func(p *models.TripProfile) bool { return p.Transportation != nil && *p.Transportation != "" },
	5: func(p *models.TripProfile) bool { return p.PackingChecklist != nil },
	6: func(p *models.TripProfile) bool { return len(p.Activities) > 0 },
}

// AllowedStage clamps a proposed stage against the transition guards.
// Progression is monotonic: the result is never below current. The proposal
// is walked down until every guard on the path from current is satisfied.
// Both inputs are forced into 1..6 first; the result is always a known stage.
func AllowedStage(current, proposed int, profile *models.TripProfile) int {
	if current < First {
		current = First
	}
	if current > Last {
		current = Last
	}
	if proposed > Last {
		proposed = Last
	}
	if proposed <= current {
		return current
	}
	if profile == nil {
		profile = &models.TripProfile{}
	}
	allowed := current
	for next := current + 1; next <= proposed; next++ {
		if guard, ok := guards[next]; ok && !guard(profile) {
			break
		}
		allowed = next
	}
	return allowed
}
