package models

// ItemKey names a consent flag in API payloads.
type ItemKey string

const (
	ItemDataCollection           ItemKey = "data_collection"
	ItemAnonymizedAnalytics      ItemKey = "anonymized_analytics"
	ItemCommunicationPreferences ItemKey = "communication_preferences"
	ItemThirdPartySharing        ItemKey = "third_party_sharing"
)

// Item describes one consent choice as presented to the user.
type Item struct {
	Key         ItemKey  `json:"key"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Required    bool     `json:"required"`
	Details     []string `json:"details"`
}

var items = []Item{
	{
		Key:         ItemDataCollection,
		Title:       "Essential Data Collection",
		Description: "Allow collection of wellness assessment responses for personalized recommendations",
		Required:    true,
		Details: []string{
			"Your PHQ-9 and GAD-7 assessment responses",
			"Chat interactions with the AI wellness companion",
			"Mini-game participation and progress",
			"All data is encrypted and anonymized within 24 hours",
			"No personal identifiers are stored with wellness data",
		},
	},
	{
		Key:         ItemAnonymizedAnalytics,
		Title:       "Anonymized Analytics",
		Description: "Help improve the platform through anonymized usage analytics",
		Required:    true,
		Details: []string{
			"Aggregated usage patterns and feature engagement",
			"Platform performance and error reporting",
			"Anonymized wellness trends for research purposes",
			"Data cannot be traced back to individual users",
			"Used only for platform improvement and mental health research",
		},
	},
	{
		Key:         ItemCommunicationPreferences,
		Title:       "Wellness Reminders",
		Description: "Receive optional reminders for check-ins and wellness activities",
		Details: []string{
			"Daily or weekly wellness check-in reminders",
			"Motivational messages and progress updates",
			"New feature announcements related to mental health",
			"You can opt out at any time from your profile",
			"No marketing or promotional content",
		},
	},
	{
		Key:         ItemThirdPartySharing,
		Title:       "Research Participation",
		Description: "Share anonymized data with approved mental health research institutions",
		Details: []string{
			"Only aggregated, anonymized data shared with research partners",
			"Contributes to advancing mental health research and treatment",
			"All research partners are vetted and HIPAA-compliant",
			"Individual responses are never shared",
			"You can withdraw consent at any time",
		},
	},
}

// Items returns the four consent items in display order.
func Items() []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		details := make([]string, len(it.Details))
		copy(details, it.Details)
		it.Details = details
		out[i] = it
	}
	return out
}
