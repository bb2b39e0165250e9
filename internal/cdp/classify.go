package cdp

import "net/http"

// FailureClass splits delivery failures into those worth retrying and those
// that will keep failing no matter how often we resend.
type FailureClass int

const (
	// FailureTransient covers network errors, 5xx responses and 429; the
	// attempt is rescheduled with backoff.
	FailureTransient FailureClass = iota

	// FailurePermanent covers the remaining 4xx responses (bad payload, bad
	// credentials); retrying is pointless and stops immediately.
	FailurePermanent
)

// ClassifyFailure decides how a failed delivery attempt should be treated.
// statusCode is zero when the request never got a response.
func ClassifyFailure(statusCode int, callErr error) FailureClass {
	if callErr != nil || statusCode == 0 {
		return FailureTransient
	}
	if statusCode == http.StatusTooManyRequests {
		return FailureTransient
	}
	if statusCode >= 500 {
		return FailureTransient
	}
	return FailurePermanent
}
