package swap

import (
	"github.com/stackbound/ledger"
	"github.com/stackbound/ledger/errors"
)

const (
	pathMake   = "swap/make"
	pathTake   = "swap/take"
	pathRefund = "swap/refund"
)

var (
	_ ledger.Msg = (*MakeMsg)(nil)
	_ ledger.Msg = (*TakeMsg)(nil)
	_ ledger.Msg = (*RefundMsg)(nil)
)

// Path implements ledger.Msg interface.
func (MakeMsg) Path() string {
	return pathMake
}

// Validate implements ledger.Msg interface.
func (m *MakeMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Maker.Validate(); err != nil {
		return errors.Wrap(err, "maker")
	}
	if err := m.MintA.Validate(); err != nil {
		return errors.Wrap(err, "mint a")
	}
	if err := m.MintB.Validate(); err != nil {
		return errors.Wrap(err, "mint b")
	}
	if m.MintA.Equals(m.MintB) {
		return errors.Wrap(ErrInvalidAsset, "deposited and requested asset are the same")
	}
	if m.DepositAmount == 0 {
		return errors.Wrap(errors.ErrAmount, "deposit amount is zero")
	}
	if m.AmountRequested == 0 {
		return errors.Wrap(errors.ErrAmount, "requested amount is zero")
	}
	return nil
}

// Path implements ledger.Msg interface.
func (TakeMsg) Path() string {
	return pathTake
}

// Validate implements ledger.Msg interface.
func (m *TakeMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Taker.Validate(); err != nil {
		return errors.Wrap(err, "taker")
	}
	if err := m.Escrow.Validate(); err != nil {
		return errors.Wrap(err, "escrow")
	}
	if err := m.Vault.Validate(); err != nil {
		return errors.Wrap(err, "vault")
	}
	return nil
}

// Path implements ledger.Msg interface.
func (RefundMsg) Path() string {
	return pathRefund
}

// Validate implements ledger.Msg interface.
func (m *RefundMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Escrow.Validate(); err != nil {
		return errors.Wrap(err, "escrow")
	}
	if err := m.Vault.Validate(); err != nil {
		return errors.Wrap(err, "vault")
	}
	return nil
}
