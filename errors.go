package accounting

import "errors"

// Sentinel errors for the ledger core. Callers match them with errors.Is;
// the wrapped message carries the offending input.
var (
	// ErrInvalidName reports an account name containing the path separator.
	ErrInvalidName = errors.New("invalid account name")
	// ErrInvalidType reports an unrecognized account type.
	ErrInvalidType = errors.New("invalid account type")
	// ErrNotFound reports a failed account path lookup.
	ErrNotFound = errors.New("account not found")
	// ErrUnknownAccount reports a persisted item referencing an absent account.
	ErrUnknownAccount = errors.New("unknown account")
	// ErrIncompatibleVersion reports a persisted document of a foreign major version.
	ErrIncompatibleVersion = errors.New("incompatible database version")
	// ErrValueParse reports a malformed value expression or an out-of-range precision.
	ErrValueParse = errors.New("invalid value expression")
	// ErrTypeMismatch reports data of an unsupported type where an entity field was expected.
	ErrTypeMismatch = errors.New("type mismatch")
)
