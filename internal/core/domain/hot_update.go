package domain

// HotUpdateDependentsEvent is the custom event name sent to the host client when
// compiled units other than the changed file must be reloaded.
const HotUpdateDependentsEvent = "hot-update-dependents"

// HotUpdateEvent is a custom invalidation event for the host client.
type HotUpdateEvent struct {
	// Name is the event name.
	Name string
	// Modules are the module identifiers to reload.
	Modules []string
}

// HotUpdateResult is the outcome of a file change notification.
type HotUpdateResult struct {
	// Impacted are the compiled units whose dependency set contains the changed file.
	Impacted []string
	// Modules are the module identifiers the host must invalidate.
	Modules []string
	// Event is set when units invisible to the host module graph are impacted.
	Event *HotUpdateEvent
	// Fallback reports that the host's own affected module list was returned unchanged.
	Fallback bool
}
