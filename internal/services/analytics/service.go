package analytics

import (
	"context"
)

// AnalyticsService defines the interface for the validated analytics helper.
// Every method is a guarded delegation to the vendor SDK: validation and
// truncation happen here, transport happens in the SDK.
type AnalyticsService interface {
	// LogEvent validates an event and forwards it to the vendor SDK, after
	// appending the standard timestamp parameter and merging default
	// parameters.
	LogEvent(ctx context.Context, name string, params Params) error

	// SetDefaultEventParameters validates and stores parameters that are
	// merged into every subsequent event. Passing nil clears them.
	SetDefaultEventParameters(ctx context.Context, params Params) error

	// SetUserProperty validates and forwards a persistent user attribute.
	// Passing an empty value clears the property.
	SetUserProperty(ctx context.Context, name, value string) error

	// SetUserID validates and applies the authenticated user identifier.
	// Passing an empty ID reverts to the anonymous app instance ID.
	SetUserID(ctx context.Context, id string) error

	// SetAnalyticsCollectionEnabled gates all forwarding. Disabled means
	// every logging call becomes a no-op until re-enabled.
	SetAnalyticsCollectionEnabled(enabled bool)

	// ResetAnalyticsData mints a new app instance ID and clears the user ID
	// and default parameters.
	ResetAnalyticsData(ctx context.Context) error

	// Flush dispatches any events buffered inside the vendor SDK.
	Flush(ctx context.Context) error

	// Close flushes pending events and releases the vendor client.
	Close() error
}
