package feegate

import "errors"

var (
	// ErrNilParam indicates a required parameter was nil.
	ErrNilParam = errors.New("feegate: nil parameter")

	// ErrOperatorNotAllowed indicates the operator is not on the allow list.
	ErrOperatorNotAllowed = errors.New("feegate: operator not allowed")

	// ErrDNSLookupFailed indicates the registry lookup did not complete.
	ErrDNSLookupFailed = errors.New("feegate: DNS lookup failed")

	// ErrDNSSECValidationFailed indicates the resolver response was not
	// DNSSEC-authenticated.
	ErrDNSSECValidationFailed = errors.New("feegate: DNSSEC validation failed")

	// ErrNoOperatorRecord indicates the registry domain publishes no
	// operator list.
	ErrNoOperatorRecord = errors.New("feegate: no operator record")
)
