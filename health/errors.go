package health

import "errors"

var (
	// ErrCheckFailed indicates a built-in indicator found its resource unhealthy.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrNilCheck indicates an indicator was registered without a check function.
	ErrNilCheck = errors.New("health: indicator has no check function")
)

// Messages recorded in ComponentDetail.Error for synthesized failures.
const (
	// UnknownErrorMessage replaces an empty error message.
	UnknownErrorMessage = "Unknown Error"

	// StalledMessage is reported under SystemDetailKey when the cycle loop stalls.
	StalledMessage = "Health check loop is stalled (Event loop might be blocked)"

	// SystemDetailKey is the detail key used for the stalled-loop report.
	SystemDetailKey = "system"
)
