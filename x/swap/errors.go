package swap

import (
	"github.com/stackbound/ledger/errors"
)

var (
	// ErrInvalidAsset is raised when the deposited and the requested
	// asset are the same.
	ErrInvalidAsset = errors.Register(1000, "invalid asset")

	// ErrDerivationMismatch is raised when a supplied address does not
	// match the deterministic derivation from the other inputs.
	ErrDerivationMismatch = errors.Register(1001, "derivation mismatch")

	// ErrDerivationExhausted is raised when no bump value yields a
	// usable record address. This cannot happen in a sane deployment.
	ErrDerivationExhausted = errors.Register(1002, "derivation exhausted")
)
