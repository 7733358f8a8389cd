package stages

// Curated reference data surfaced in stage 4 and stage 6 guidance. Same
// lifecycle as the stage table: static, process-wide, read-only.

var PackingTemplates = map[string][]string{
	"beach": {
		"Swimwear",
		"Beach towels",
		"Sunscreen",
		"Sun hat",
		"Sunglasses",
		"Beach footwear",
	},
	"city": {
		"Comfortable walking shoes",
		"City map",
		"Day bag",
		"Weather-appropriate clothing",
		"Transit card",
		"Power adapter",
	},
	"adventure": {
		"Hiking boots",
		"First aid kit",
		"Navigation tools",
		"Weather protection",
		"Emergency supplies",
		"Activity-specific gear",
	},
}

var SafetyGuidelines = map[string][]string{
	"preparation": {
		"Research local emergency numbers",
		"Save embassy contact information",
		"Make copies of important documents",
		"Purchase travel insurance",
		"Check travel advisories",
	},
	"onArrival": {
		"Locate nearest medical facilities",
		"Identify safe neighborhoods",
		"Learn basic local phrases",
		"Save offline maps",
		"Register with embassy",
	},
	"dailySafety": {
		"Keep emergency contacts accessible",
		"Use reputable transportation",
		"Stay aware of surroundings",
		"Protect valuables",
		"Follow local customs",
	},
}
