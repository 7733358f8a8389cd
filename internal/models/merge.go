package models

// Merge overlays a profile fragment extracted from one turn onto the
// accumulated profile. Fields present (non-nil) in the fragment overwrite;
// absent fields are left untouched. Arrays are replaced wholesale, not
// unioned. Neither input is mutated.
func Merge(current, fragment *TripProfile) *TripProfile {
	merged := &TripProfile{}
	if current != nil {
		*merged = *current
	}
	if fragment == nil {
		return merged
	}

	if fragment.Destination != nil {
		merged.Destination = fragment.Destination
	}
	if fragment.StartDate != nil {
		merged.StartDate = fragment.StartDate
	}
	if fragment.EndDate != nil {
		merged.EndDate = fragment.EndDate
	}
	if fragment.Budget != nil {
		merged.Budget = fragment.Budget
	}
	if fragment.Accommodation != nil {
		merged.Accommodation = fragment.Accommodation
	}
	if fragment.Transportation != nil {
		merged.Transportation = fragment.Transportation
	}
	if fragment.MealType != nil {
		merged.MealType = fragment.MealType
	}
	if fragment.Interests != nil {
		merged.Interests = fragment.Interests
	}
	if fragment.Activities != nil {
		merged.Activities = fragment.Activities
	}
	if fragment.AvoidTouristy != nil {
		merged.AvoidTouristy = fragment.AvoidTouristy
	}
	if fragment.LocalAreas != nil {
		merged.LocalAreas = fragment.LocalAreas
	}
	if fragment.CulturalInterests != nil {
		merged.CulturalInterests = fragment.CulturalInterests
	}
	if fragment.VibeKeywords != nil {
		merged.VibeKeywords = fragment.VibeKeywords
	}
	if fragment.DietaryNeeds != nil {
		merged.DietaryNeeds = fragment.DietaryNeeds
	}
	if fragment.TravelStyle != nil {
		merged.TravelStyle = fragment.TravelStyle
	}
	if fragment.RiskConcerns != nil {
		merged.RiskConcerns = fragment.RiskConcerns
	}
	if fragment.PackingChecklist != nil {
		merged.PackingChecklist = fragment.PackingChecklist
	}
	if fragment.SafetyNotes != nil {
		merged.SafetyNotes = fragment.SafetyNotes
	}
	if fragment.EmergencyContacts != nil {
		merged.EmergencyContacts = fragment.EmergencyContacts
	}
	if fragment.TripStage != nil {
		merged.TripStage = fragment.TripStage
	}
	if fragment.Suggestions != nil {
		merged.Suggestions = fragment.Suggestions
	}
	return merged
}

// ClampProgress bounds an advisory progress value to [0,1].
func ClampProgress(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
