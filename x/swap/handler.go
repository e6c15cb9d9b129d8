package swap

import (
	"github.com/stackbound/ledger"
	"github.com/stackbound/ledger/errors"
	"github.com/stackbound/ledger/orm"
	"github.com/stackbound/ledger/x"
	"github.com/stackbound/ledger/x/token"
)

const (
	makeCost   int64 = 300
	takeCost   int64 = 200
	refundCost int64 = 200
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r ledger.Registry, auth x.Authenticator, ctrl token.Controller) {
	bucket := NewEscrowBucket()
	r.Handle(pathMake, MakeHandler{auth: auth, bucket: bucket, ctrl: ctrl})
	r.Handle(pathTake, TakeHandler{auth: auth, bucket: bucket, ctrl: ctrl})
	r.Handle(pathRefund, RefundHandler{auth: auth, bucket: bucket, ctrl: ctrl})
}

// MakeHandler opens an escrow: it creates the record and the vault and
// locks the deposit.
type MakeHandler struct {
	auth   x.Authenticator
	bucket EscrowBucket
	ctrl   token.Controller
}

var _ ledger.Handler = MakeHandler{}

// Check verifies the transaction without touching state.
func (h MakeHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: makeCost}, nil
}

// Deliver creates the escrow record and the vault and moves the deposit
// from the maker into the vault.
func (h MakeHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	addr, bump, err := DeriveEscrowAddress(msg.Maker, msg.Seed)
	if err != nil {
		return nil, err
	}
	escrow := Escrow{
		Metadata:        &ledger.Metadata{Schema: ledger.CurrentSchema},
		Maker:           msg.Maker,
		Seed:            msg.Seed,
		MintA:           msg.MintA,
		MintB:           msg.MintB,
		AmountRequested: msg.AmountRequested,
		Bump:            uint32(bump),
	}
	if err := h.bucket.Save(db, orm.NewSimpleObj(addr, &escrow)); err != nil {
		return nil, errors.Wrap(err, "save escrow")
	}

	// The vault is the record's own holding of the deposited asset.
	if _, err := h.ctrl.EnsureHolding(db, addr, msg.MintA); err != nil {
		return nil, errors.Wrap(err, "create vault")
	}
	// Ensure the maker has a payout account for the requested asset so
	// that a later take cannot fail on the receiving side.
	if _, err := h.ctrl.EnsureHolding(db, msg.Maker, msg.MintB); err != nil {
		return nil, errors.Wrap(err, "maker payout holding")
	}
	if err := h.ctrl.Move(db, msg.MintA, msg.Maker, addr, msg.DepositAmount); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}
	if err := reserveFunds(h.ctrl, db, msg.Maker, addr); err != nil {
		return nil, errors.Wrap(err, "account reserve")
	}

	return &ledger.DeliverResult{Data: addr}, nil
}

func (h MakeHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*MakeMsg, error) {
	var msg MakeMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.VerifySigner(ctx, h.auth, msg.Maker); err != nil {
		return nil, err
	}
	addr, _, err := DeriveEscrowAddress(msg.Maker, msg.Seed)
	if err != nil {
		return nil, err
	}
	switch has, err := h.bucket.Has(db, addr); {
	case err != nil:
		return nil, err
	case has:
		return nil, errors.Wrapf(errors.ErrDuplicate, "escrow %s", addr)
	}
	return &msg, nil
}

// TakeHandler executes the swap: the taker pays the requested amount
// to the maker and collects the deposit.
type TakeHandler struct {
	auth   x.Authenticator
	bucket EscrowBucket
	ctrl   token.Controller
}

var _ ledger.Handler = TakeHandler{}

// Check verifies the transaction without touching state.
func (h TakeHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: takeCost}, nil
}

// Deliver moves the payment from the taker to the maker, releases the
// deposit to the taker and closes the escrow. The payment is moved
// first so that custody never leaves the vault without the maker being
// paid in the same atomic unit.
func (h TakeHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, record, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if err := h.ctrl.Move(db, record.MintB, msg.Taker, record.Maker, record.AmountRequested); err != nil {
		return nil, errors.Wrap(err, "payment")
	}
	if err := releaseReserve(h.ctrl, db, msg.Escrow, record.Maker, msg.Vault); err != nil {
		return nil, errors.Wrap(err, "account reserve")
	}
	if err := drainVault(h.ctrl, db, record.MintA, msg.Escrow, msg.Vault, msg.Taker); err != nil {
		return nil, err
	}
	if err := h.bucket.Delete(db, msg.Escrow); err != nil {
		return nil, errors.Wrap(err, "delete escrow")
	}
	return &ledger.DeliverResult{}, nil
}

func (h TakeHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*TakeMsg, *Escrow, error) {
	var msg TakeMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if err := x.VerifySigner(ctx, h.auth, msg.Taker); err != nil {
		return nil, nil, err
	}
	record, err := loadEscrow(h.bucket, db, msg.Escrow, msg.Vault)
	if err != nil {
		return nil, nil, err
	}
	return &msg, record, nil
}

// RefundHandler returns the deposit to the maker and closes the escrow.
type RefundHandler struct {
	auth   x.Authenticator
	bucket EscrowBucket
	ctrl   token.Controller
}

var _ ledger.Handler = RefundHandler{}

// Check verifies the transaction without touching state.
func (h RefundHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: refundCost}, nil
}

// Deliver moves the deposit back to the maker and closes the escrow.
func (h RefundHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, record, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if err := releaseReserve(h.ctrl, db, msg.Escrow, record.Maker, msg.Vault); err != nil {
		return nil, errors.Wrap(err, "account reserve")
	}
	if err := drainVault(h.ctrl, db, record.MintA, msg.Escrow, msg.Vault, record.Maker); err != nil {
		return nil, err
	}
	if err := h.bucket.Delete(db, msg.Escrow); err != nil {
		return nil, errors.Wrap(err, "delete escrow")
	}
	return &ledger.DeliverResult{}, nil
}

func (h RefundHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*RefundMsg, *Escrow, error) {
	var msg RefundMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	record, err := loadEscrow(h.bucket, db, msg.Escrow, msg.Vault)
	if err != nil {
		return nil, nil, err
	}
	// Only the maker recorded at creation can refund.
	if err := x.VerifySigner(ctx, h.auth, record.Maker); err != nil {
		return nil, nil, err
	}
	return &msg, record, nil
}

// loadEscrow loads the record stored under the escrow address and
// verifies that both supplied addresses match the deterministic
// derivation, so that neither a foreign record nor a foreign vault can
// be substituted.
func loadEscrow(bucket EscrowBucket, db ledger.ReadOnlyKVStore, escrow, vault ledger.Address) (*Escrow, error) {
	record, err := bucket.GetEscrow(db, escrow)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "escrow %s", escrow)
	}
	if !record.Address().Equals(escrow) {
		return nil, errors.Wrap(ErrDerivationMismatch, "escrow address")
	}
	if !VaultAddress(escrow, record.MintA).Equals(vault) {
		return nil, errors.Wrap(ErrDerivationMismatch, "vault address")
	}
	return record, nil
}

// drainVault moves the remaining vault balance to the recipient and
// closes the vault.
func drainVault(ctrl token.Controller, db ledger.KVStore, mint, escrow, vault, recipient ledger.Address) error {
	balance, err := ctrl.Balance(db, vault)
	if err != nil {
		return errors.Wrap(err, "vault balance")
	}
	if balance > 0 {
		if err := ctrl.Move(db, mint, escrow, recipient, balance); err != nil {
			return errors.Wrap(err, "release deposit")
		}
	}
	if err := ctrl.Close(db, vault); err != nil {
		return errors.Wrap(err, "close vault")
	}
	return nil
}

// reserveFunds locks the configured account reserve for the record and
// the vault, both paid by the maker and owned by the record address.
func reserveFunds(ctrl token.Controller, db ledger.KVStore, maker, escrow ledger.Address) error {
	conf, err := loadConf(db)
	switch {
	case errors.ErrNotFound.Is(err):
		return nil
	case err != nil:
		return errors.Wrap(err, "load configuration")
	}
	if conf.AccountReserve == 0 {
		return nil
	}
	return ctrl.Move(db, conf.ReserveMint, maker, escrow, 2*conf.AccountReserve)
}

// releaseReserve refunds the locked account reserve to the maker. When
// the reserve is kept in the deposited asset the reserve holding is the
// vault itself. Only the reserved amount is returned then and the vault
// stays for the caller to drain and close.
func releaseReserve(ctrl token.Controller, db ledger.KVStore, escrow, maker, vault ledger.Address) error {
	conf, err := loadConf(db)
	switch {
	case errors.ErrNotFound.Is(err):
		return nil
	case err != nil:
		return errors.Wrap(err, "load configuration")
	}
	if conf.AccountReserve == 0 {
		return nil
	}
	hold := token.HoldingAddress(escrow, conf.ReserveMint)
	balance, err := ctrl.Balance(db, hold)
	switch {
	case errors.ErrNotFound.Is(err):
		return nil
	case err != nil:
		return err
	}
	amount := 2 * conf.AccountReserve
	if balance < amount {
		amount = balance
	}
	if amount > 0 {
		if err := ctrl.Move(db, conf.ReserveMint, escrow, maker, amount); err != nil {
			return err
		}
	}
	if hold.Equals(vault) {
		return nil
	}
	return ctrl.Close(db, hold)
}
