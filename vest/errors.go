package vest

import "errors"

// Kind is a stable failure category for programmatic handling.
//
// Every operation surfaces exactly one Kind; there are no partial successes
// or warnings. Callers should branch on Kind rather than matching error
// strings.
//
// NOTE: Error() strings are intentionally kept human-readable and may evolve.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	KindAddressMismatch        Kind = "AddressMismatch"
	KindNonceMismatch          Kind = "NonceMismatch"
	KindMissingSignature       Kind = "MissingSignature"
	KindInvalidOwner           Kind = "InvalidOwner"
	KindInvalidAccountData     Kind = "InvalidAccountData"
	KindInvalidDiscriminator   Kind = "InvalidDiscriminator"
	KindUnauthorizedPrincipal  Kind = "UnauthorizedPrincipal"
	KindInvalidSeed            Kind = "InvalidSeed"
	KindStartTimestampInPast   Kind = "StartTimestampInPast"
	KindInvalidDurations       Kind = "InvalidDurations"
	KindInvalidStepDuration    Kind = "InvalidStepDuration"
	KindAllocationFrozen       Kind = "AllocationFrozen"
	KindZeroAllocation         Kind = "ZeroAllocation"
	KindInsufficientFunds      Kind = "InsufficientFunds"
	KindAlreadyInitialized     Kind = "AlreadyInitialized"
	KindUninitialized          Kind = "Uninitialized"
	KindNoClaimableAmount      Kind = "NoClaimableAmount"
	KindClaimExceedsAllocation Kind = "ClaimExceedsAllocation"
	KindInvalidInstruction     Kind = "InvalidInstruction"
	KindInternal               Kind = "Internal"
)

// Error is the module's structured error type.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewError returns a structured error with the given kind.
func NewError(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// WrapError attaches a kind and message to an underlying cause.
func WrapError(kind Kind, msg string, cause error) error {
	if cause == nil {
		return NewError(kind, msg)
	}
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// KindOf returns the Kind of a structured error, or "" if err is not one.
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Kind
}
