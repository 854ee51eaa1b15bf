package lamp

import "moodlamp-go/bus"

// Public topics. Retained unless noted.
var (
	TopicConfig = bus.T("config", "lamp")
	TopicState  = bus.T("lamp", "state")
	TopicMode   = bus.T("lamp", "mode", "value")
	TopicStatus = bus.T("lamp", "status")
	TopicStats  = bus.T("lamp", "stats", "value")

	// TopicButton is followed by the outcome ("confirmed" / "rejected").
	// Not retained.
	TopicButton = bus.T("lamp", "button", "event")
)
