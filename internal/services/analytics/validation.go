package analytics

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/posthog/posthog-go"
)

// ErrInvalidArgument is returned for validation failures when the
// fail-on-validation flag is enabled in debug builds.
var ErrInvalidArgument = errors.New("analytics: invalid argument")

// GA4 validation rules as documented for events, parameters, and user
// properties.
const (
	eventMaxParameters         = 25
	eventNameMaxLength         = 40
	parameterNameMaxLength     = 40
	parameterValueMaxLength    = 100
	userPropertyNameMaxLength  = 24
	userPropertyValueMaxLength = 36
	userIDValueMaxLength       = 256
)

// namePattern constrains names to a letter followed by letters, digits, and
// underscores, up to the per-kind maximum length. Reserved prefixes are
// rejected separately because RE2 has no negative lookahead.
const namePattern = `^[A-Za-z][A-Za-z0-9_]{0,%d}$`

var reservedNamePrefixes = []string{"ga_", "google_", "firebase_"}

var (
	validEventNameRegex        = regexp.MustCompile(fmt.Sprintf(namePattern, eventNameMaxLength-1))
	validParameterNameRegex    = regexp.MustCompile(fmt.Sprintf(namePattern, parameterNameMaxLength-1))
	validUserPropertyNameRegex = regexp.MustCompile(fmt.Sprintf(namePattern, userPropertyNameMaxLength-1))
)

// isValidName reports whether a name matches the pattern and avoids the
// reserved prefixes.
func isValidName(name string, pattern *regexp.Regexp) bool {
	if !pattern.MatchString(name) {
		return false
	}
	for _, prefix := range reservedNamePrefixes {
		if strings.HasPrefix(name, prefix) {
			return false
		}
	}
	return true
}

// SetValidateInDebug controls whether validation is performed in debug
// builds. Default is true.
func (h *Helper) SetValidateInDebug(enable bool) {
	h.mu.Lock()
	h.validateInDebug = enable
	h.mu.Unlock()
}

// SetValidateInProduction controls whether validation is performed in release
// builds. Default is false.
//
// If enabled, only custom error events are sent to the vendor, no logging or
// returned errors.
func (h *Helper) SetValidateInProduction(enable bool) {
	h.mu.Lock()
	h.validateInProduction = enable
	h.mu.Unlock()
}

// SetSendValidationErrorEvents controls whether custom validation error
// events are sent to the vendor. Default is false.
func (h *Helper) SetSendValidationErrorEvents(enable bool) {
	h.mu.Lock()
	h.sendValidationErrorEvents = enable
	h.mu.Unlock()
}

// SetFailOnValidationInDebug controls whether validation errors are returned
// to the caller in debug builds. Default is false.
func (h *Helper) SetFailOnValidationInDebug(enable bool) {
	h.mu.Lock()
	h.failOnValidationInDebug = enable
	h.mu.Unlock()
}

// SetTruncateStringValues controls whether string values in event parameters
// and user properties are truncated to the maximum lengths allowed before
// forwarding to the vendor. Default is true.
//
// While "validation" is about awareness of issues, this setting is about
// enforcement, to prevent the vendor from dropping parameters and user
// properties that exceed the allowable lengths. If enabled, it applies
// regardless of build type or whether validation is enabled.
//
// Alternatively, use TruncateParam and TruncateUserProp to trim only those
// string values that may potentially exceed the max.
func (h *Helper) SetTruncateStringValues(enable bool) {
	h.mu.Lock()
	h.truncateStringValues = enable
	h.mu.Unlock()
}

// validationEnabled determines whether validation rules should be applied.
func (h *Helper) validationEnabled() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return (h.validateInDebug && h.config.Debug) || (h.validateInProduction && !h.config.Debug)
}

// validateEvent checks the event name, parameter count, and parameter names
// and values against the GA4 rules. Every violation is handled individually;
// the joined error is non-nil only when the fail-on-validation flag applies.
func (h *Helper) validateEvent(name string, params Params) error {
	if !h.validationEnabled() {
		return nil
	}

	var errs []error
	if !isValidName(name, validEventNameRegex) {
		errs = append(errs, h.handleValidationError(fmt.Sprintf("invalid event name %q", name)))
	}
	if len(params) > eventMaxParameters {
		errs = append(errs, h.handleValidationError(fmt.Sprintf(
			"too many parameters in event %q: contains %d, max %d", name, len(params), eventMaxParameters)))
	}
	errs = append(errs, h.validateParameters(name, params))
	return errors.Join(errs...)
}

// validateParameters checks each parameter name and value against the GA4
// rules. The source identifies the owning event for error messages.
func (h *Helper) validateParameters(source string, params Params) error {
	if !h.validationEnabled() || params == nil {
		return nil
	}

	var errs []error
	for name, value := range params {
		if !isValidName(name, validParameterNameRegex) {
			errs = append(errs, h.handleValidationError(fmt.Sprintf(
				"invalid parameter name %q in %q", name, source)))
		}

		if name == "items" {
			// Ecommerce items hold nested product parameter bags.
			switch items := value.(type) {
			case []Params:
				for _, product := range items {
					errs = append(errs, h.validateParameters(source+" [items]", product))
				}
			case []any:
				for _, item := range items {
					if product, ok := item.(Params); ok {
						errs = append(errs, h.validateParameters(source+" [items]", product))
					}
				}
			}
			continue
		}

		if s, ok := value.(string); ok && utf8.RuneCountInString(s) > parameterValueMaxLength {
			errs = append(errs, h.handleValidationError(fmt.Sprintf(
				"value too long for parameter %q in %q: %s", name, source, s)))
		}
	}
	return errors.Join(errs...)
}

// validateUserProperty checks the user property name and value against the
// GA4 rules.
func (h *Helper) validateUserProperty(name, value string) error {
	if !h.validationEnabled() {
		return nil
	}

	var errs []error
	if !isValidName(name, validUserPropertyNameRegex) {
		errs = append(errs, h.handleValidationError(fmt.Sprintf("invalid user property name %q", name)))
	}
	if utf8.RuneCountInString(value) > userPropertyValueMaxLength {
		errs = append(errs, h.handleValidationError(fmt.Sprintf(
			"value too long for user property %q: %s", name, value)))
	}
	return errors.Join(errs...)
}

// validateUserID checks the user ID against the GA4 rules.
func (h *Helper) validateUserID(id string) error {
	if !h.validationEnabled() {
		return nil
	}
	if utf8.RuneCountInString(id) > userIDValueMaxLength {
		return h.handleValidationError(fmt.Sprintf("user id is too long: %s", id))
	}
	return nil
}

// handleValidationError handles a validation failure by logging it, sending a
// custom error event, and/or returning the error, as configured via the
// validation flags. Logging and returned errors are limited to debug builds;
// error events are available in both debug and production.
func (h *Helper) handleValidationError(message string) error {
	h.mu.RLock()
	client := h.client
	enabled := h.collection
	distinct := h.distinctID
	sendEvents := h.sendValidationErrorEvents
	failInDebug := h.failOnValidationInDebug
	debug := h.config.Debug
	h.mu.RUnlock()

	if debug {
		h.log.Error(message)
	}

	if sendEvents && client != nil && enabled {
		eventMessage := message
		if utf8.RuneCountInString(eventMessage) > parameterValueMaxLength {
			runes := []rune(eventMessage)
			eventMessage = string(runes[:parameterValueMaxLength-3]) + "..."
		}
		// Forwarded directly so the synthetic event never re-enters
		// validation.
		if err := client.Enqueue(posthog.Capture{
			DistinctId: distinct,
			Event:      EventValidationError,
			Properties: posthog.NewProperties().Set(ParamErrorMessage, eventMessage),
		}); err != nil {
			h.log.Errorf("failed to send validation error event: %v", err)
		}
	}

	if failInDebug && debug {
		return fmt.Errorf("%w: %s", ErrInvalidArgument, message)
	}
	return nil
}

// TruncateParam truncates a string parameter value to the maximum supported
// length, returning as much of the string as will fit in an event parameter.
func TruncateParam(value string) string {
	return truncateRunes(value, parameterValueMaxLength)
}

// TruncateUserProp truncates a user property value to the maximum supported
// length, returning as much of the string as will fit in a user property.
func TruncateUserProp(value string) string {
	return truncateRunes(value, userPropertyValueMaxLength)
}

// truncateParams returns a copy of the parameter bag with string values
// shortened to the maximum supported length.
//
// Because this iterates over the entire bag, it is cheaper to use
// TruncateParam on just those string values that might exceed the max, but
// this keeps the whole event compliant when enforcement is on.
func truncateParams(params Params) Params {
	if params == nil {
		return nil
	}
	out := make(Params, len(params))
	for name, value := range params {
		if s, ok := value.(string); ok {
			out[name] = TruncateParam(s)
			continue
		}
		out[name] = value
	}
	return out
}

// truncateRunes clips a string to max runes, never splitting a UTF-8
// sequence.
func truncateRunes(value string, max int) string {
	if utf8.RuneCountInString(value) <= max {
		return value
	}
	runes := []rune(value)
	return string(runes[:max])
}
