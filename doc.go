// Package ambiclimate provides a Go client library for the Ambi Climate
// cloud API.
//
// The library covers device discovery and the device mode, feedback, and
// sensor endpoints, with bearer-token authentication, a configurable
// per-attempt timeout, and bounded automatic retry on timeout.
//
// # Authentication
//
// With an access token obtained out of band:
//
//	client, err := ambiclimate.NewClient("your-access-token")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Or through the vendor's OAuth2 authorization-code flow:
//
//	cfg := &ambiclimate.OAuthConfig{
//	    ClientID:     "your-client-id",
//	    ClientSecret: "your-client-secret",
//	    RedirectURL:  "https://your-app.com/callback",
//	}
//	token, err := cfg.Exchange(ctx, code)
//	client, err := ambiclimate.NewOAuthClient(ctx, cfg, token)
//
// # Basic Usage
//
// Discover devices, then operate on the returned handles:
//
//	if !client.FindDevices(ctx) {
//	    log.Fatal("no devices found")
//	}
//	for _, device := range client.Devices() {
//	    temp, ok := device.GetSensorTemperature(ctx)
//	    if ok {
//	        fmt.Printf("%s: %.1f°C\n", device.RoomName, temp)
//	    }
//	}
//
// Commands collapse to a boolean outcome:
//
//	if !device.SetComfortMode(ctx, false) {
//	    // command was rejected or the request failed
//	}
//
// # Error Handling
//
// Only local validation returns errors (for example SetComfortFeedback with
// a value outside the accepted set). Network-level failures, meaning timeouts
// after the retry budget is spent and transport errors, are reported through
// the logger configured with WithLogger and collapse to nil/false/zero
// results.
// Timeouts are retried up to the configured budget; transport errors are not
// retried.
//
// # Metrics
//
// NewMetricsCollector returns a prometheus.Collector exposing each device's
// sensor readings; cmd/ambiclimate-exporter wraps it in a standalone
// exporter binary.
package ambiclimate
