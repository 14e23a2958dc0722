package reviews

import "errors"

var (
	ErrUnavailable        = errors.New("review eligibility is not available")
	ErrAlreadyReviewed    = errors.New("item already reviewed for this order")
	ErrSubmissionInFlight = errors.New("review submission already in progress")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrRejected           = errors.New("review rejected")
	ErrSyncFailed         = errors.New("failed to load user reviews")
)
