package service

import (
	"strings"

	"campus-ops/internal/repository"
)

// Event type classifications
const (
	EventTypeMeeting     = "meeting"
	EventTypeAssembly    = "assembly"
	EventTypeFieldTrip   = "field_trip"
	EventTypePerformance = "performance"
	EventTypeAthletic    = "athletic"
	EventTypeParentEvent = "parent_event"
	EventTypeProfDev     = "professional_development"
	EventTypeReligious   = "religious_observance"
	EventTypeFundraiser  = "fundraiser"
	EventTypeOther       = "other"
)

// typeRule maps title keywords to an event type. Rule order matters:
// the first rule with a matching keyword wins.
type typeRule struct {
	keywords  []string
	eventType string
}

var typeRules = []typeRule{
	{[]string{"meeting"}, EventTypeMeeting},
	{[]string{"assembly"}, EventTypeAssembly},
	{[]string{"field trip"}, EventTypeFieldTrip},
	{[]string{"performance", "concert", "play"}, EventTypePerformance},
	{[]string{"game", "sports", "athletic"}, EventTypeAthletic},
	{[]string{"parent", "family"}, EventTypeParentEvent},
	{[]string{"pd", "professional development", "training"}, EventTypeProfDev},
	{[]string{"shabbat", "holiday", "tefillah"}, EventTypeReligious},
	{[]string{"fundraiser", "gala", "auction"}, EventTypeFundraiser},
}

// determineEventType classifies an event from the primary record's
// title, falling back to the source payload's type hint, else "other".
func determineEventType(primary repository.RawEvent) string {
	title := strings.ToLower(primary.Title)
	for _, rule := range typeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(title, kw) {
				return rule.eventType
			}
		}
	}

	if hint := repository.TypeHint(primary.Source, primary.Payload); hint != "" {
		if t := classifyHint(hint); t != "" {
			return t
		}
	}

	return EventTypeOther
}

func classifyHint(hint string) string {
	hint = strings.ToLower(strings.TrimSpace(hint))
	for _, rule := range typeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(hint, kw) {
				return rule.eventType
			}
		}
	}
	return ""
}

// defaultTeamNeeds seeds the operational team flags from the event type
// on first insert. Operators own these flags afterwards; reruns never
// touch them.
func defaultTeamNeeds(eventType string) repository.TeamNeeds {
	switch eventType {
	case EventTypePerformance:
		return repository.TeamNeeds{Setup: true, AV: true}
	case EventTypeFundraiser:
		return repository.TeamNeeds{Setup: true, Kitchen: true, Custodial: true}
	case EventTypeAthletic:
		return repository.TeamNeeds{Setup: true, Security: true}
	case EventTypeParentEvent:
		return repository.TeamNeeds{Setup: true, Kitchen: true}
	case EventTypeAssembly:
		return repository.TeamNeeds{Setup: true, AV: true}
	default:
		return repository.TeamNeeds{}
	}
}
