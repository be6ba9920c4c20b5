package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/posthog/posthog-go"

	"analyticshelper/internal/logger"
	"analyticshelper/internal/services/instanceid"
)

// vendorClient is the slice of the vendor SDK surface the helper needs.
// posthog.Client satisfies it; tests substitute a capturing fake.
type vendorClient interface {
	Enqueue(posthog.Message) error
	Close() error
}

// Helper implements AnalyticsService on top of the PostHog client.
type Helper struct {
	config *Config
	log    *logger.Logger

	mu            sync.RWMutex
	client        vendorClient
	instanceID    string
	distinctID    string
	defaultParams Params
	collection    bool
	debugDispatch bool

	validateInDebug           bool
	validateInProduction      bool
	sendValidationErrorEvents bool
	failOnValidationInDebug   bool
	truncateStringValues      bool
}

var _ AnalyticsService = (*Helper)(nil)

// New creates the analytics helper, connects the vendor client, and refreshes
// identity user properties (client_id_2, timezone_offset) that may have
// changed since the previous launch.
//
// An empty write key degrades gracefully: the helper is returned with a nil
// client and every operation becomes a no-op.
func New(config *Config) (*Helper, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	h := &Helper{
		config:               config,
		log:                  logger.New("analytics"),
		instanceID:           instanceid.NewClientID(),
		collection:           true,
		validateInDebug:      true,
		truncateStringValues: true,
	}
	h.distinctID = h.instanceID

	if config.WriteKey == "" {
		h.log.Warn("no analytics write key, events won't be forwarded")
		return h, nil
	}

	client, err := newVendorClient(config, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create analytics client: %w", err)
	}
	h.client = client

	if err := h.refreshIdentityProperties(context.Background()); err != nil {
		h.log.Errorf("failed to refresh identity user properties: %v", err)
	}

	return h, nil
}

// newVendorClient builds a PostHog client from the helper configuration.
// Debug dispatch trades batching for latency so events reach the vendor
// console in near real time.
func newVendorClient(config *Config, debugDispatch bool) (vendorClient, error) {
	phCfg := posthog.Config{
		Endpoint:  config.Endpoint,
		Interval:  config.FlushInterval,
		BatchSize: config.BatchSize,
	}
	if debugDispatch {
		phCfg.Interval = time.Second
		phCfg.BatchSize = 1
		phCfg.Verbose = true
	}
	return posthog.NewWithConfig(config.WriteKey, phCfg)
}

// LogEvent validates an event, appends the standard timestamp parameter,
// merges default parameters, and forwards the result to the vendor SDK.
func (h *Helper) LogEvent(ctx context.Context, name string, params Params) error {
	h.mu.RLock()
	client := h.client
	enabled := h.collection
	distinct := h.distinctID
	truncate := h.truncateStringValues
	defaults := h.defaultParams
	h.mu.RUnlock()

	if client == nil || !enabled {
		return nil
	}

	if params == nil {
		params = Params{}
	}
	params[ParamTimestamp] = timestamp()

	if err := h.validateEvent(name, params); err != nil {
		return err
	}

	merged := make(Params, len(defaults)+len(params))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range params {
		merged[k] = v
	}
	if truncate {
		merged = truncateParams(merged)
	}

	if err := client.Enqueue(posthog.Capture{
		DistinctId: distinct,
		Event:      name,
		Properties: posthog.Properties(merged),
	}); err != nil {
		return fmt.Errorf("failed to capture event %q: %w", name, err)
	}
	return nil
}

// SetDefaultEventParameters validates and stores parameters merged into every
// subsequent event. Passing nil clears them.
func (h *Helper) SetDefaultEventParameters(ctx context.Context, params Params) error {
	if params == nil {
		h.mu.Lock()
		h.defaultParams = nil
		h.mu.Unlock()
		return nil
	}

	if err := h.validateParameters("default parameters", params); err != nil {
		return err
	}

	h.mu.RLock()
	truncate := h.truncateStringValues
	h.mu.RUnlock()

	stored := make(Params, len(params))
	for k, v := range params {
		stored[k] = v
	}
	if truncate {
		stored = truncateParams(stored)
	}

	h.mu.Lock()
	h.defaultParams = stored
	h.mu.Unlock()
	return nil
}

// SetUserProperty validates and forwards a persistent user attribute.
// Passing an empty value clears the property.
func (h *Helper) SetUserProperty(ctx context.Context, name, value string) error {
	h.mu.RLock()
	client := h.client
	enabled := h.collection
	distinct := h.distinctID
	truncate := h.truncateStringValues
	h.mu.RUnlock()

	if client == nil || !enabled {
		return nil
	}

	if err := h.validateUserProperty(name, value); err != nil {
		return err
	}
	if truncate {
		value = TruncateUserProp(value)
	}

	if value == "" {
		// Clearing a person property goes through the vendor's $unset list.
		if err := client.Enqueue(posthog.Capture{
			DistinctId: distinct,
			Event:      "$set",
			Properties: posthog.NewProperties().Set("$unset", []string{name}),
		}); err != nil {
			return fmt.Errorf("failed to clear user property %q: %w", name, err)
		}
		return nil
	}

	if err := client.Enqueue(posthog.Identify{
		DistinctId: distinct,
		Properties: posthog.NewProperties().Set(name, value),
	}); err != nil {
		return fmt.Errorf("failed to set user property %q: %w", name, err)
	}
	return nil
}

// SetUserID validates and applies the authenticated user identifier, aliasing
// the anonymous app instance ID to it so prior events attach to the same
// person. Passing an empty ID reverts to the instance ID.
//
// This feature must be used in accordance with the applicable privacy policy.
func (h *Helper) SetUserID(ctx context.Context, id string) error {
	h.mu.RLock()
	client := h.client
	enabled := h.collection
	instance := h.instanceID
	h.mu.RUnlock()

	if err := h.validateUserID(id); err != nil {
		return err
	}

	if id == "" {
		h.mu.Lock()
		h.distinctID = h.instanceID
		h.mu.Unlock()
		return nil
	}

	if client != nil && enabled {
		if err := client.Enqueue(posthog.Alias{
			DistinctId: id,
			Alias:      instance,
		}); err != nil {
			return fmt.Errorf("failed to alias user id: %w", err)
		}
	}

	h.mu.Lock()
	h.distinctID = id
	h.mu.Unlock()
	return nil
}

// SetAnalyticsCollectionEnabled gates all forwarding. Disabled means every
// logging call becomes a no-op until re-enabled. By default collection is
// enabled.
func (h *Helper) SetAnalyticsCollectionEnabled(enabled bool) {
	h.mu.Lock()
	h.collection = enabled
	h.mu.Unlock()
}

// ResetAnalyticsData mints a new app instance ID, clears the user ID and
// default parameters, and re-asserts the identity user properties.
func (h *Helper) ResetAnalyticsData(ctx context.Context) error {
	h.mu.Lock()
	h.instanceID = instanceid.NewClientID()
	h.distinctID = h.instanceID
	h.defaultParams = nil
	h.mu.Unlock()

	return h.refreshIdentityProperties(ctx)
}

// refreshIdentityProperties re-asserts user properties that may have changed
// since the previous launch.
func (h *Helper) refreshIdentityProperties(ctx context.Context) error {
	h.mu.RLock()
	instance := h.instanceID
	h.mu.RUnlock()

	if err := h.SetUserProperty(ctx, UserPropertyTimezoneOffset, timezoneOffset()); err != nil {
		return err
	}
	return h.SetUserProperty(ctx, UserPropertyClientID2, instance)
}

// Flush dispatches events buffered inside the vendor SDK. The client flushes
// its queue on Close, so the helper closes it and rebuilds it with the same
// configuration.
func (h *Helper) Flush(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.client == nil {
		return nil
	}
	if err := h.client.Close(); err != nil {
		h.client = nil
		return fmt.Errorf("failed to flush analytics client: %w", err)
	}

	client, err := newVendorClient(h.config, h.debugDispatch)
	if err != nil {
		h.client = nil
		return fmt.Errorf("failed to rebuild analytics client: %w", err)
	}
	h.client = client
	return nil
}

// EnableDebugDispatch rebuilds the vendor client with a batch size of one and
// a minimal flush interval so events appear in the vendor console in near
// real time. This should NOT be called by production apps.
func (h *Helper) EnableDebugDispatch() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.debugDispatch {
		return nil
	}
	h.debugDispatch = true

	if h.client == nil {
		return nil
	}
	if err := h.client.Close(); err != nil {
		h.client = nil
		return fmt.Errorf("failed to close analytics client: %w", err)
	}

	client, err := newVendorClient(h.config, true)
	if err != nil {
		h.client = nil
		return fmt.Errorf("failed to rebuild analytics client: %w", err)
	}
	h.client = client
	return nil
}

// Close flushes pending events and releases the vendor client.
func (h *Helper) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.client == nil {
		return nil
	}
	err := h.client.Close()
	h.client = nil
	if err != nil {
		return fmt.Errorf("failed to close analytics client: %w", err)
	}
	return nil
}

// timestamp returns the current time in ISO 8601 format with millisecond
// precision and zone offset, e.g. 2022-10-20T18:51:30.974-07:00.
func timestamp() string {
	return time.Now().Format("2006-01-02T15:04:05.000-07:00")
}

// timezoneOffset returns the current zone offset in hours vs UTC,
// e.g. "-8.0", "2.0".
func timezoneOffset() string {
	_, offsetSeconds := time.Now().Zone()
	return fmt.Sprintf("%1.1f", float64(offsetSeconds)/3600.0)
}
