package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Template Errors (E001-E019)
	// ============================================

	"E001": {
		Category:   CategoryTemplate,
		Message:    "Unresolved placeholder",
		Suggestion: "The markup parser dropped or moved the marker; check that the value sits in a position HTML allows",
	},
	"E003": {
		Category:   CategoryTemplate,
		Message:    "Unsupported callback signature",
		Suggestion: "Use func(), func(*dom.Event) or func(any)",
	},
	"E004": {
		Category:   CategoryTemplate,
		Message:    "Cell value not assignable",
		Suggestion: "Bind the property to a cell whose type can hold what the element produces",
	},

	// ============================================
	// Component Errors (E020-E039)
	// ============================================

	"E002": {
		Category:   CategoryComponent,
		Message:    "Malformed component factory",
		Suggestion: "The factory must return a non-nil Component without panicking",
	},
	"E021": {
		Category:   CategoryComponent,
		Message:    "Component rendered nothing",
		Suggestion: "Return a fragment from Render; use an empty template for no output",
	},

	// ============================================
	// Config Errors (E120-E129)
	// ============================================

	"E120": {
		Category:   CategoryConfig,
		Message:    "Invalid cellbind.json",
		Suggestion: "Check that cellbind.json is valid JSON",
	},
	"E121": {
		Category:   CategoryConfig,
		Message:    "Config file not found",
		Suggestion: "Run without --config to use defaults, or create cellbind.json",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},

	// ============================================
	// Snapshot Errors (E130-E139)
	// ============================================

	"E130": {
		Category: CategorySnapshot,
		Message:  "Snapshot store failed",
	},
	"E131": {
		Category:   CategorySnapshot,
		Message:    "Snapshot archive corrupt",
		Suggestion: "The file is not a cellbind snapshot or was truncated",
	},

	// ============================================
	// Playground Errors (E140-E159)
	// ============================================

	"E140": {
		Category:   CategoryPlayground,
		Message:    "Event target not found",
		Suggestion: "Target elements by their id attribute or node path",
	},
	"E141": {
		Category: CategoryPlayground,
		Message:  "Invalid event message",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
