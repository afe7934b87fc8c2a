package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldMarket is the standardized structured logging key for Bing market codes.
	FieldMarket = "market"
	// FieldPhase is the standardized structured logging key for fetch pipeline phases.
	FieldPhase = "phase"
	// FieldPath is the standardized structured logging key for wallpaper file paths.
	FieldPath = "path"
	// FieldCorrelationID is the standardized structured logging key for fetch correlation identifiers.
	FieldCorrelationID = "correlation_id"
	// FieldEventType is the standardized structured logging key for machine-readable event categories.
	FieldEventType = "event_type"
	// FieldErrorHint is the standardized structured logging key for operator next steps.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"
)
