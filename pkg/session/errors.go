package session

import "errors"

var (
	// ErrNotInitialized indicates a mutation method was called before Init
	ErrNotInitialized = errors.New("session.not_initialized")

	// ErrAlreadyInitialized indicates Init was called twice
	ErrAlreadyInitialized = errors.New("session.already_initialized")

	// ErrSessionNotFound indicates no session exists in either storage tier
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrSessionExpired indicates the session has passed its expiry
	ErrSessionExpired = errors.New("session.expired")

	// ErrMalformedRecord indicates stored bytes could not be decoded into a record
	ErrMalformedRecord = errors.New("session.malformed_record")

	// ErrRenewalDeclined indicates the user declined the renewal confirmation
	ErrRenewalDeclined = errors.New("session.renewal_declined")

	// ErrRenewalFailed indicates the renewal endpoint returned a failure
	ErrRenewalFailed = errors.New("session.renewal_failed")

	// ErrDurableTierFailed marks a soft failure: the durable tier write failed
	// but the backup tier holds the record, so the operation succeeded
	ErrDurableTierFailed = errors.New("session.durable_tier_failed")
)
