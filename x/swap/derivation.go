package swap

import (
	"encoding/binary"

	"github.com/stackbound/ledger"
	"github.com/stackbound/ledger/errors"
	"github.com/stackbound/ledger/x/token"
)

// escrowCondition derives the condition of an escrow record from its
// inputs. The resulting address is a one way hash, no signing key can
// ever control it.
func escrowCondition(maker ledger.Address, seed uint64, bump uint8) ledger.Condition {
	data := make([]byte, 0, len(maker)+9)
	data = append(data, maker...)
	var s [8]byte
	binary.BigEndian.PutUint64(s[:], seed)
	data = append(data, s[:]...)
	data = append(data, bump)
	return ledger.NewCondition("swap", "escrow", data)
}

// DeriveEscrowAddress finds the escrow record address for the given
// maker and seed. The bump is searched from 255 downwards until the
// derived address is distinct from the maker's own address, and must
// be recorded so that later validation can re-derive without a search.
func DeriveEscrowAddress(maker ledger.Address, seed uint64) (ledger.Address, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		addr := escrowCondition(maker, seed, uint8(bump)).Address()
		if addr.Equals(maker) {
			continue
		}
		return addr, uint8(bump), nil
	}
	return nil, 0, errors.Wrapf(ErrDerivationExhausted, "maker %s seed %d", maker, seed)
}

// EscrowAddress re-derives the record address using a known bump.
func EscrowAddress(maker ledger.Address, seed uint64, bump uint8) ledger.Address {
	return escrowCondition(maker, seed, bump).Address()
}

// VaultAddress returns the address of the vault custody account of an
// escrow record: the record's own holding of the deposited asset.
func VaultAddress(escrow, mint ledger.Address) ledger.Address {
	return token.HoldingAddress(escrow, mint)
}
