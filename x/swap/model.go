package swap

import (
	"github.com/stackbound/ledger"
	"github.com/stackbound/ledger/errors"
	"github.com/stackbound/ledger/orm"
)

var _ orm.CloneableData = (*Escrow)(nil)

// Validate ensures the escrow record is self consistent.
func (e *Escrow) Validate() error {
	if err := e.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := e.Maker.Validate(); err != nil {
		return errors.Wrap(err, "maker")
	}
	if err := e.MintA.Validate(); err != nil {
		return errors.Wrap(err, "mint a")
	}
	if err := e.MintB.Validate(); err != nil {
		return errors.Wrap(err, "mint b")
	}
	if e.MintA.Equals(e.MintB) {
		return errors.Wrap(ErrInvalidAsset, "deposited and requested asset are the same")
	}
	if e.AmountRequested == 0 {
		return errors.Wrap(errors.ErrAmount, "requested amount is zero")
	}
	if e.Bump > 255 {
		return errors.Wrapf(errors.ErrInput, "bump %d out of range", e.Bump)
	}
	return nil
}

// Copy makes a new Escrow with the same data.
func (e *Escrow) Copy() orm.CloneableData {
	return &Escrow{
		Metadata:        e.Metadata.Copy(),
		Maker:           e.Maker.Clone(),
		Seed:            e.Seed,
		MintA:           e.MintA.Clone(),
		MintB:           e.MintB.Clone(),
		AmountRequested: e.AmountRequested,
		Bump:            e.Bump,
	}
}

// Address re-derives the record's own address from its content. The
// record is authentic iff this equals the key it is stored under.
func (e *Escrow) Address() ledger.Address {
	return EscrowAddress(e.Maker, e.Seed, uint8(e.Bump))
}

// EscrowBucket stores escrow records, keyed by the derived record
// address.
type EscrowBucket struct {
	orm.Bucket
}

// NewEscrowBucket initializes an EscrowBucket.
func NewEscrowBucket() EscrowBucket {
	return EscrowBucket{
		Bucket: orm.NewBucket("esc", orm.NewSimpleObj(nil, &Escrow{})),
	}
}

// GetEscrow loads the Escrow stored under the address, or nil if none
// exists.
func (b EscrowBucket) GetEscrow(db ledger.ReadOnlyKVStore, addr ledger.Address) (*Escrow, error) {
	obj, err := b.Get(db, addr)
	if err != nil {
		return nil, err
	}
	return AsEscrow(obj), nil
}

// AsEscrow extracts an *Escrow value or nil from the object.
func AsEscrow(obj orm.Object) *Escrow {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Escrow)
}
