package model

import "time"

// PlanEventType enumerates plan-stream event kinds.
type PlanEventType string

const (
	PlanEventMetadata PlanEventType = "metadata"
	PlanEventContent  PlanEventType = "content"
	PlanEventDone     PlanEventType = "done"
	PlanEventError    PlanEventType = "error"
)

// PlanEvent is one unit of the plan streaming protocol: exactly one
// metadata event first, zero or more content events, then exactly one
// done or error event. Data holds the type-specific payload
// (PlanMetadata, string, PlanDone or PlanError).
type PlanEvent struct {
	Type PlanEventType `json:"type"`
	Data any           `json:"data"`
}

// PlanMetadata is the payload of the leading metadata event.
type PlanMetadata struct {
	Title     string           `json:"title"`
	Elements  BusinessElements `json:"elements"`
	CreatedAt time.Time        `json:"createdAt"`
}

// PlanDone is the payload of the terminal done event.
type PlanDone struct {
	FullContent  string `json:"fullContent"`
	WasTruncated bool   `json:"wasTruncated"`
}

// PlanError is the payload of the terminal error event.
type PlanError struct {
	Message string `json:"message"`
}
