package model

// Record status constants.
const (
	StatusActive     = "active"
	StatusOnboarding = "onboarding"
	StatusAllocated  = "allocated"
	StatusSent       = "sent"
	StatusFailed     = "failed"
)

// Health status strings reported by backends.
const (
	HealthHealthy   = "healthy"
	HealthUnhealthy = "unhealthy"
)

// RunState is a stage of the onboarding state machine.
type RunState string

const (
	RunIdle             RunState = "idle"
	RunExtracting       RunState = "extracting"
	RunAwaitingCreate   RunState = "awaiting_create"
	RunAwaitingAllocate RunState = "awaiting_allocate"
	RunAwaitingNotify   RunState = "awaiting_notify"
	RunCompleted        RunState = "completed"
	RunFailed           RunState = "failed"
)

// Terminal reports whether no further transitions are possible from s.
func (s RunState) Terminal() bool {
	return s == RunCompleted || s == RunFailed
}
