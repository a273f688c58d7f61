package pipeline

// Defaults for menu scanning. Overridable via flags in the cmd binaries.
const (
	// DefaultModelName is the Gemini model used for vision extraction.
	DefaultModelName = "gemini-2.5-flash"

	// DefaultVisionFallbackStyle is the classifier fallback on the vision
	// path. The legacy text parser uses the broader "Ale".
	DefaultVisionFallbackStyle = "Pale Ale"
)
