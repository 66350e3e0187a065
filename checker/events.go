package checker

import "github.com/tailored-agentic-units/dfaequiv/observability"

// Checker event types.
const (
	EventLoad     observability.EventType = "checker.load"
	EventVerdict  observability.EventType = "checker.verdict"
	EventClassify observability.EventType = "checker.classify"
	EventExport   observability.EventType = "checker.export"
	EventError    observability.EventType = "checker.error"
)
