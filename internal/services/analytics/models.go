// Package analytics provides a validated, flag-configurable helper around a
// third-party analytics SDK (PostHog).
//
// The helper covers the common implementation needs of an analytics layer:
// - Defining event, parameter, and user property constants to prevent typos
// - Adding standard parameters to every event
// - Validating names/values against GA4-style rules before forwarding
// - Truncating string values to the maximum supported lengths before forwarding
// - Graceful degradation when the vendor SDK is unavailable
//
// All transport, batching, and retry behavior stays inside the vendor SDK.
// The helper only gates and decorates the calls it forwards.
package analytics

// Params is an event parameter bag keyed by parameter name.
type Params map[string]any

// Event name constants (define all custom event names here).
const (
	EventScreenView      = "screen_view"
	EventAppOpen         = "app_open"
	EventAppClose        = "app_close"
	EventValidationError = "error_validation"
)

// Event parameter name constants (define all custom parameter names here).
const (
	ParamScreenName     = "screen_name"
	ParamScreenClass    = "screen_class"
	ParamTimestamp      = "timestamp"
	ParamErrorMessage   = "error_message"
	ParamEngagementTime = "engagement_time"
	ParamSessionID      = "session_id"
)

// User property name constants (define all custom user property names here).
const (
	UserPropertyClientID2      = "client_id_2"
	UserPropertyTimezoneOffset = "timezone_offset"
)
