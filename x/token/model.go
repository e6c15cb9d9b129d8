package token

import (
	"github.com/stackbound/ledger"
	"github.com/stackbound/ledger/errors"
	"github.com/stackbound/ledger/orm"
)

var _ orm.CloneableData = (*Token)(nil)
var _ orm.CloneableData = (*Holding)(nil)

// Validate ensures the mint declaration is sane.
func (t *Token) Validate() error {
	if err := t.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if n := len(t.Name); n < 1 || n > 32 {
		return errors.Wrap(errors.ErrInput, "name must be between 1 and 32 characters")
	}
	if t.Decimals > 18 {
		return errors.Wrap(errors.ErrInput, "decimals must not be greater than 18")
	}
	return nil
}

// Copy makes a new Token with the same data.
func (t *Token) Copy() orm.CloneableData {
	return &Token{
		Metadata: t.Metadata.Copy(),
		Name:     t.Name,
		Decimals: t.Decimals,
	}
}

// Validate ensures the holding references valid addresses.
func (h *Holding) Validate() error {
	if err := h.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := h.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := h.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	return nil
}

// Copy makes a new Holding with the same data.
func (h *Holding) Copy() orm.CloneableData {
	return &Holding{
		Metadata: h.Metadata.Copy(),
		Owner:    h.Owner.Clone(),
		Mint:     h.Mint.Clone(),
		Balance:  h.Balance,
	}
}

// HoldingAddress returns the deterministic address of the holding of
// given owner in given mint. Any party can compute it without a lookup.
func HoldingAddress(owner, mint ledger.Address) ledger.Address {
	data := make([]byte, 0, len(owner)+len(mint))
	data = append(data, owner...)
	data = append(data, mint...)
	return ledger.NewCondition("token", "holding", data).Address()
}

// TokenBucket stores the mint registry, keyed by the mint address.
type TokenBucket struct {
	orm.Bucket
}

// NewTokenBucket initializes a TokenBucket.
func NewTokenBucket() TokenBucket {
	return TokenBucket{
		Bucket: orm.NewBucket("mint", orm.NewSimpleObj(nil, &Token{})),
	}
}

// GetToken loads the Token under the mint address, or nil if not
// registered.
func (b TokenBucket) GetToken(db ledger.ReadOnlyKVStore, mint ledger.Address) (*Token, error) {
	obj, err := b.Get(db, mint)
	if err != nil {
		return nil, err
	}
	return AsToken(obj), nil
}

// AsToken extracts a *Token value or nil from the object.
func AsToken(obj orm.Object) *Token {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Token)
}

// HoldingBucket stores holdings, keyed by HoldingAddress(owner, mint).
type HoldingBucket struct {
	orm.Bucket
}

// NewHoldingBucket initializes a HoldingBucket.
func NewHoldingBucket() HoldingBucket {
	return HoldingBucket{
		Bucket: orm.NewBucket("holding", orm.NewSimpleObj(nil, &Holding{})),
	}
}

// GetHolding loads the Holding stored under the address, or nil if
// none exists.
func (b HoldingBucket) GetHolding(db ledger.ReadOnlyKVStore, addr ledger.Address) (*Holding, error) {
	obj, err := b.Get(db, addr)
	if err != nil {
		return nil, err
	}
	return AsHolding(obj), nil
}

// AsHolding extracts a *Holding value or nil from the object.
func AsHolding(obj orm.Object) *Holding {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Holding)
}
