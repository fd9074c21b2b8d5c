package domain

import "errors"

// Sentinel errors shared by the codecs, the zone store and the resolver.
// Callers wrap them with context using fmt.Errorf("...: %w", err) and match with errors.Is.
var (
	// ErrMalformedName is returned when a domain name violates label or length limits,
	// or ends before its root terminator.
	ErrMalformedName = errors.New("malformed domain name")
	// ErrMalformedMessage is returned when a DNS message cannot be parsed.
	ErrMalformedMessage = errors.New("malformed DNS message")
	// ErrNotQuery is returned when a message that should be a query has QR=1.
	ErrNotQuery = errors.New("message is not a query")
	// ErrMalformedRecordBody is returned when a zone file body does not match its type's grammar.
	ErrMalformedRecordBody = errors.New("malformed record body")
	// ErrUnsupportedParameter is returned for an HTTPS/SVCB parameter key that cannot be encoded.
	ErrUnsupportedParameter = errors.New("unsupported service parameter")
	// ErrUnsupportedType is returned when no record codec exists for a type.
	ErrUnsupportedType = errors.New("unsupported record type")
	// ErrCNAMELoopDetected is returned when a CNAME chase revisits a name or exceeds its depth bound.
	ErrCNAMELoopDetected = errors.New("CNAME loop detected")
)
