package ledgertest

import (
	"crypto/rand"

	"github.com/stackbound/ledger"
)

// NewCondition returns a random condition in the signature namespace.
// Each call returns a different condition, as if belonging to a fresh
// keypair.
func NewCondition() ledger.Condition {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		panic(err)
	}
	return ledger.NewCondition("sigs", "ed25519", raw)
}
