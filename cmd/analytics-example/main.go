package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"analyticshelper/internal/services/analytics"
)

// Example demonstrating the analytics helper: validated, truncating,
// flag-configurable forwarding to the vendor SDK.
func main() {
	// Build configuration from the environment. Without ANALYTICS_WRITE_KEY
	// the helper runs in degraded mode and nothing is forwarded.
	config := analytics.LoadConfigFromEnv()

	helper, err := analytics.New(config)
	if err != nil {
		log.Fatalf("failed to create analytics helper: %v", err)
	}
	defer helper.Close()

	ctx := context.Background()

	// Validation and enforcement behavior. Defaults shown explicitly.
	helper.SetValidateInDebug(true)
	helper.SetValidateInProduction(false)
	helper.SetSendValidationErrorEvents(false)
	helper.SetFailOnValidationInDebug(false)
	helper.SetTruncateStringValues(true)

	// Example 1: a foreground session with screen views
	fmt.Println("=== Session Flow ===")

	session := helper.NewSession()
	if err := session.Start(ctx); err != nil {
		log.Printf("failed to start session: %v", err)
	}

	if err := helper.SetDefaultEventParameters(ctx, analytics.Params{
		"app_version": "2.1.0",
	}); err != nil {
		log.Printf("failed to set default parameters: %v", err)
	}

	if err := helper.LogEvent(ctx, analytics.EventScreenView, analytics.Params{
		analytics.ParamScreenName:  "Home",
		analytics.ParamScreenClass: "HomeController",
	}); err != nil {
		log.Printf("failed to log screen view: %v", err)
	} else {
		fmt.Println("✓ Logged screen_view for Home")
	}

	// Example 2: user identity
	fmt.Println("\n=== User Identity ===")

	if err := helper.SetUserID(ctx, "user-42"); err != nil {
		log.Printf("failed to set user id: %v", err)
	} else {
		fmt.Println("✓ Set user ID")
	}

	if err := helper.SetUserProperty(ctx, "favorite_team", "Sounders"); err != nil {
		log.Printf("failed to set user property: %v", err)
	} else {
		fmt.Println("✓ Set favorite_team user property")
	}

	// Example 3: truncation helpers for values that may exceed the limits
	fmt.Println("\n=== Truncation ===")

	long := strings.Repeat("the quick brown fox ", 10)
	fmt.Printf("✓ TruncateParam: %d -> %d chars\n", len(long), len(analytics.TruncateParam(long)))
	fmt.Printf("✓ TruncateUserProp: %d -> %d chars\n", len(long), len(analytics.TruncateUserProp(long)))

	if err := helper.LogEvent(ctx, analytics.EventScreenView, analytics.Params{
		analytics.ParamScreenName: long, // clipped by enforcement before forwarding
	}); err != nil {
		log.Printf("failed to log event: %v", err)
	}

	// Example 4: session close and dispatch
	fmt.Println("\n=== Shutdown ===")

	time.Sleep(100 * time.Millisecond)
	if err := session.End(ctx); err != nil {
		log.Printf("failed to end session: %v", err)
	} else {
		fmt.Println("✓ Logged app_close with engagement time")
	}

	if err := helper.Flush(ctx); err != nil {
		log.Printf("failed to flush: %v", err)
	} else {
		fmt.Println("✓ Flushed buffered events")
	}

	fmt.Println("\nDone. Set ANALYTICS_WRITE_KEY to forward events to the vendor.")
}
