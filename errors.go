package ambiclimate

import "errors"

// Sentinel errors returned by the Ambi Climate client.
//
// Only local validation produces errors. Network-level failures are logged
// and collapse to nil/false results instead; see the Client documentation.
var (
	// ErrEmptyToken is returned when a client is built without credentials.
	ErrEmptyToken = errors.New("ambiclimate: access token cannot be empty")

	// ErrInvalidComfortFeedback is returned for feedback values outside the
	// set accepted by the user/feedback endpoint.
	ErrInvalidComfortFeedback = errors.New("ambiclimate: invalid comfort feedback value")
)
