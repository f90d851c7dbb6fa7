package driven

// Normaliser cleans extracted case text before classification.
// It transforms source-specific artifacts (scan noise, control characters,
// irregular whitespace) into clean prose.
type Normaliser interface {
	// Normalise transforms raw case text into cleaned text.
	// The sourceType helps determine the appropriate processing.
	Normalise(text string, sourceType string) string

	// SupportedTypes returns source types this normaliser handles.
	// Can include the wildcard "*" for all sources.
	SupportedTypes() []string

	// Priority returns the normaliser priority (higher = more specific).
	// Priority ranges:
	//   50-89: Format-specific (scanned documents, markdown)
	//   10-49: Generic (whitespace and control-character cleanup)
	Priority() int
}

// NormaliserRegistry manages case-text normalisers.
// When multiple normalisers match a source type, all matches are applied in
// priority order (highest first).
type NormaliserRegistry interface {
	// Get retrieves the best-matching normaliser for a source type.
	// Returns nil if no normaliser is registered for the type.
	Get(sourceType string) Normaliser

	// GetAll retrieves all normalisers matching a source type, sorted by
	// priority (highest first).
	GetAll(sourceType string) []Normaliser

	// Register registers a normaliser.
	Register(normaliser Normaliser)

	// List returns all registered source types.
	List() []string
}
