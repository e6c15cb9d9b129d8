package token

import (
	"math"

	"github.com/stackbound/ledger"
	"github.com/stackbound/ledger/errors"
	"github.com/stackbound/ledger/orm"
)

// Controller is the functionality needed by other extensions to
// manipulate mints and holdings. This needn't be a handler for
// messages, just the key business logic.
type Controller interface {
	// CreateMint registers a new asset type under the mint address.
	CreateMint(db ledger.KVStore, mint ledger.Address, name string, decimals uint32) error

	// EnsureHolding guarantees a holding of given owner in given mint
	// exists and returns its address. Calling it on an existing holding
	// is a no-op success.
	EnsureHolding(db ledger.KVStore, owner, mint ledger.Address) (ledger.Address, error)

	// Move transfers amount of mint from the holding of src to the
	// holding of dst. The destination holding is created on demand.
	Move(db ledger.KVStore, mint, src, dst ledger.Address, amount uint64) error

	// Issue credits amount of mint to the holding of owner, creating
	// the holding on demand. There is no payer, supply grows.
	Issue(db ledger.KVStore, mint, owner ledger.Address, amount uint64) error

	// Close deletes the holding stored under the given address. Only an
	// empty holding can be closed.
	Close(db ledger.KVStore, holding ledger.Address) error

	// Balance returns the balance of the holding stored under the given
	// address. Missing holding is an error, not a zero balance.
	Balance(db ledger.ReadOnlyKVStore, holding ledger.Address) (uint64, error)
}

type controller struct {
	tokens   TokenBucket
	holdings HoldingBucket
}

var _ Controller = controller{}

// NewController returns a Controller backed by the default buckets.
func NewController() Controller {
	return controller{
		tokens:   NewTokenBucket(),
		holdings: NewHoldingBucket(),
	}
}

func (c controller) CreateMint(db ledger.KVStore, mint ledger.Address, name string, decimals uint32) error {
	if err := mint.Validate(); err != nil {
		return errors.Wrap(err, "mint address")
	}
	switch has, err := c.tokens.Has(db, mint); {
	case err != nil:
		return err
	case has:
		return errors.Wrapf(errors.ErrDuplicate, "mint %s", mint)
	}
	token := Token{
		Metadata: &ledger.Metadata{Schema: ledger.CurrentSchema},
		Name:     name,
		Decimals: decimals,
	}
	return c.tokens.Save(db, orm.NewSimpleObj(mint, &token))
}

func (c controller) EnsureHolding(db ledger.KVStore, owner, mint ledger.Address) (ledger.Address, error) {
	if err := c.requireMint(db, mint); err != nil {
		return nil, err
	}
	addr := HoldingAddress(owner, mint)
	switch has, err := c.holdings.Has(db, addr); {
	case err != nil:
		return nil, err
	case has:
		return addr, nil
	}
	holding := Holding{
		Metadata: &ledger.Metadata{Schema: ledger.CurrentSchema},
		Owner:    owner,
		Mint:     mint,
	}
	if err := c.holdings.Save(db, orm.NewSimpleObj(addr, &holding)); err != nil {
		return nil, err
	}
	return addr, nil
}

func (c controller) Move(db ledger.KVStore, mint, src, dst ledger.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero transfer")
	}
	if err := c.requireMint(db, mint); err != nil {
		return err
	}

	srcAddr := HoldingAddress(src, mint)
	sender, err := c.holdings.GetHolding(db, srcAddr)
	if err != nil {
		return err
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrEmpty, "source holding %s", srcAddr)
	}
	if sender.Balance < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount,
			"balance %d, requested %d", sender.Balance, amount)
	}
	if src.Equals(dst) {
		return nil
	}

	dstAddr, err := c.EnsureHolding(db, dst, mint)
	if err != nil {
		return err
	}
	receiver, err := c.holdings.GetHolding(db, dstAddr)
	if err != nil {
		return err
	}
	if receiver.Balance > math.MaxUint64-amount {
		return errors.Wrapf(errors.ErrOverflow, "destination holding %s", dstAddr)
	}

	sender.Balance -= amount
	receiver.Balance += amount
	if err := c.holdings.Save(db, orm.NewSimpleObj(srcAddr, sender)); err != nil {
		return err
	}
	return c.holdings.Save(db, orm.NewSimpleObj(dstAddr, receiver))
}

func (c controller) Issue(db ledger.KVStore, mint, owner ledger.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero issue")
	}
	addr, err := c.EnsureHolding(db, owner, mint)
	if err != nil {
		return err
	}
	holding, err := c.holdings.GetHolding(db, addr)
	if err != nil {
		return err
	}
	if holding.Balance > math.MaxUint64-amount {
		return errors.Wrapf(errors.ErrOverflow, "holding %s", addr)
	}
	holding.Balance += amount
	return c.holdings.Save(db, orm.NewSimpleObj(addr, holding))
}

func (c controller) Close(db ledger.KVStore, holding ledger.Address) error {
	h, err := c.holdings.GetHolding(db, holding)
	if err != nil {
		return err
	}
	if h == nil {
		return errors.Wrapf(errors.ErrNotFound, "holding %s", holding)
	}
	if h.Balance != 0 {
		return errors.Wrapf(errors.ErrState, "holding %s is funded", holding)
	}
	return c.holdings.Delete(db, holding)
}

func (c controller) Balance(db ledger.ReadOnlyKVStore, holding ledger.Address) (uint64, error) {
	h, err := c.holdings.GetHolding(db, holding)
	if err != nil {
		return 0, err
	}
	if h == nil {
		return 0, errors.Wrapf(errors.ErrNotFound, "holding %s", holding)
	}
	return h.Balance, nil
}

func (c controller) requireMint(db ledger.ReadOnlyKVStore, mint ledger.Address) error {
	switch has, err := c.tokens.Has(db, mint); {
	case err != nil:
		return err
	case !has:
		return errors.Wrapf(errors.ErrNotFound, "mint %s not registered", mint)
	}
	return nil
}
