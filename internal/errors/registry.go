package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Registry Errors (K001-K019)
	// ============================================

	"K001": {
		Category: CategoryRegistry,
		Message:  "Instance name already registered",
		Detail:   "Registering a name twice keeps the existing instance; the second registration's initial state is ignored.",
		DocURL:   "https://keystate.dev/docs/errors/K001",
	},
	"K002": {
		Category: CategoryRegistry,
		Message:  "Unknown instance name",
		Detail:   "No instance with that name has been registered. A placeholder instance is returned; reads yield nothing and writes are dropped.",
		DocURL:   "https://keystate.dev/docs/errors/K002",
	},

	// ============================================
	// Config Errors (K020-K039)
	// ============================================

	"K020": {
		Category: CategoryConfig,
		Message:  "Configuration already set",
		Detail:   "The instance is already configured. Use UpdateConfig to merge changes instead of replacing the existing configuration.",
		DocURL:   "https://keystate.dev/docs/errors/K020",
	},
	"K021": {
		Category: CategoryConfig,
		Message:  "Configuration resolved to nothing",
		Detail:   "A configuration initializer must return a usable configuration value.",
		DocURL:   "https://keystate.dev/docs/errors/K021",
	},

	// ============================================
	// Validation Errors (K040-K059)
	// ============================================

	"K040": {
		Category: CategoryValidation,
		Message:  "Write entry is empty",
		Detail:   "Store and Define take an entry built with Values or Init; an empty entry resolves to no key/value pairs.",
		DocURL:   "https://keystate.dev/docs/errors/K040",
	},
	"K041": {
		Category: CategoryValidation,
		Message:  "Invalid computed property descriptor",
		Detail:   "Define expects each key to map to a Computed descriptor carrying the initial state and optional accessors.",
		DocURL:   "https://keystate.dev/docs/errors/K041",
	},

	// ============================================
	// Runtime Errors (K060-K079)
	// ============================================

	"K060": {
		Category: CategoryRuntime,
		Message:  "Listener is not callable",
		Detail:   "On requires a non-nil listener function. The registration was skipped.",
		DocURL:   "https://keystate.dev/docs/errors/K060",
	},
	"K061": {
		Category: CategoryRuntime,
		Message:  "Operation on placeholder instance",
		Detail:   "This instance was produced by a failed lookup. Reads and writes on it are no-ops.",
		DocURL:   "https://keystate.dev/docs/errors/K061",
	},
}
