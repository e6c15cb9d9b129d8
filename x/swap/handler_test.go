package swap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackbound/ledger"
	"github.com/stackbound/ledger/app"
	"github.com/stackbound/ledger/errors"
	"github.com/stackbound/ledger/gconf"
	"github.com/stackbound/ledger/ledgertest"
	"github.com/stackbound/ledger/store"
	"github.com/stackbound/ledger/x/token"
	"github.com/stackbound/ledger/x/utils"
)

const initialBalance uint64 = 1000000

// swapEnv runs the full stack: a router with all swap handlers behind a
// savepoint, a token controller with two funded parties and a context
// based authenticator.
type swapEnv struct {
	t       *testing.T
	db      ledger.CacheableKVStore
	auth    *ledgertest.CtxAuth
	handler ledger.Handler
	bucket  EscrowBucket
	ctrl    token.Controller
	maker   ledger.Condition
	taker   ledger.Condition
	mintA   ledger.Address
	mintB   ledger.Address
}

func newSwapEnv(t *testing.T) *swapEnv {
	t.Helper()
	db := store.MemStore()
	ctrl := token.NewController()
	auth := &ledgertest.CtxAuth{Key: "auth"}

	r := app.NewRouter()
	RegisterRoutes(r, auth, ctrl)
	handler := app.ChainDecorators(
		utils.NewSavepoint().OnDeliver(),
	).WithHandler(r)

	env := &swapEnv{
		t:       t,
		db:      db,
		auth:    auth,
		handler: handler,
		bucket:  NewEscrowBucket(),
		ctrl:    ctrl,
		maker:   ledgertest.NewCondition(),
		taker:   ledgertest.NewCondition(),
		mintA:   ledgertest.NewCondition().Address(),
		mintB:   ledgertest.NewCondition().Address(),
	}
	require.NoError(t, ctrl.CreateMint(db, env.mintA, "Asset A", 6))
	require.NoError(t, ctrl.CreateMint(db, env.mintB, "Asset B", 6))
	require.NoError(t, ctrl.Issue(db, env.mintA, env.maker.Address(), initialBalance))
	require.NoError(t, ctrl.Issue(db, env.mintB, env.taker.Address(), initialBalance))
	return env
}

func (e *swapEnv) ctx(signer ledger.Condition) ledger.Context {
	return e.auth.SetConditions(context.Background(), signer)
}

func (e *swapEnv) makeMsg(seed, deposit, requested uint64) *MakeMsg {
	return &MakeMsg{
		Metadata:        &ledger.Metadata{Schema: 1},
		Maker:           e.maker.Address(),
		Seed:            seed,
		MintA:           e.mintA,
		MintB:           e.mintB,
		DepositAmount:   deposit,
		AmountRequested: requested,
	}
}

func (e *swapEnv) make(seed, deposit, requested uint64) (ledger.Address, error) {
	tx := &ledgertest.Tx{Msg: e.makeMsg(seed, deposit, requested)}
	res, err := e.handler.Deliver(e.ctx(e.maker), e.db, tx)
	if err != nil {
		return nil, err
	}
	return ledger.Address(res.Data), nil
}

func (e *swapEnv) take(signer ledger.Condition, escrow, vault ledger.Address) error {
	tx := &ledgertest.Tx{Msg: &TakeMsg{
		Metadata: &ledger.Metadata{Schema: 1},
		Taker:    signer.Address(),
		Escrow:   escrow,
		Vault:    vault,
	}}
	_, err := e.handler.Deliver(e.ctx(signer), e.db, tx)
	return err
}

func (e *swapEnv) refund(signer ledger.Condition, escrow, vault ledger.Address) error {
	tx := &ledgertest.Tx{Msg: &RefundMsg{
		Metadata: &ledger.Metadata{Schema: 1},
		Escrow:   escrow,
		Vault:    vault,
	}}
	_, err := e.handler.Deliver(e.ctx(signer), e.db, tx)
	return err
}

// balance returns the balance of the owner's holding, zero if the
// holding does not exist.
func (e *swapEnv) balance(owner, mint ledger.Address) uint64 {
	e.t.Helper()
	balance, err := e.ctrl.Balance(e.db, token.HoldingAddress(owner, mint))
	if errors.ErrNotFound.Is(err) {
		return 0
	}
	require.NoError(e.t, err)
	return balance
}

func (e *swapEnv) escrowExists(escrow ledger.Address) bool {
	e.t.Helper()
	has, err := e.bucket.Has(e.db, escrow)
	require.NoError(e.t, err)
	return has
}

func (e *swapEnv) vaultExists(vault ledger.Address) bool {
	e.t.Helper()
	_, err := e.ctrl.Balance(e.db, vault)
	if errors.ErrNotFound.Is(err) {
		return false
	}
	require.NoError(e.t, err)
	return true
}

func TestMake(t *testing.T) {
	env := newSwapEnv(t)

	escrow, err := env.make(1, 400, 900)
	require.NoError(t, err)

	wantAddr, bump, err := DeriveEscrowAddress(env.maker.Address(), 1)
	require.NoError(t, err)
	assert.Equal(t, wantAddr, escrow)

	record, err := env.bucket.GetEscrow(env.db, escrow)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, env.maker.Address(), record.Maker)
	assert.Equal(t, uint64(1), record.Seed)
	assert.Equal(t, env.mintA, record.MintA)
	assert.Equal(t, env.mintB, record.MintB)
	assert.Equal(t, uint64(900), record.AmountRequested)
	assert.Equal(t, uint32(bump), record.Bump)

	// The deposit moved from the maker into the vault, nothing was
	// created or destroyed.
	vault := VaultAddress(escrow, env.mintA)
	assert.Equal(t, uint64(400), env.balance(escrow, env.mintA))
	assert.Equal(t, initialBalance-400, env.balance(env.maker.Address(), env.mintA))
	assert.True(t, env.vaultExists(vault))
}

func TestMakeDuplicateSeed(t *testing.T) {
	env := newSwapEnv(t)

	first, err := env.make(1, 100, 100)
	require.NoError(t, err)

	_, err = env.make(1, 100, 100)
	assert.True(t, errors.ErrDuplicate.Is(err), "got %+v", err)

	// A different seed opens an independent escrow.
	second, err := env.make(2, 100, 100)
	require.NoError(t, err)
	assert.False(t, first.Equals(second))
	assert.Equal(t, initialBalance-200, env.balance(env.maker.Address(), env.mintA))
}

func TestMakeInsufficientFunds(t *testing.T) {
	env := newSwapEnv(t)

	_, err := env.make(1, initialBalance+1, 100)
	assert.True(t, errors.ErrInsufficientAmount.Is(err), "got %+v", err)

	// The failed instruction must not leave any state behind.
	escrow, _, err := DeriveEscrowAddress(env.maker.Address(), 1)
	require.NoError(t, err)
	assert.False(t, env.escrowExists(escrow))
	assert.False(t, env.vaultExists(VaultAddress(escrow, env.mintA)))
	assert.Equal(t, initialBalance, env.balance(env.maker.Address(), env.mintA))
}

func TestMakeSameAsset(t *testing.T) {
	env := newSwapEnv(t)

	msg := env.makeMsg(1, 100, 100)
	msg.MintB = env.mintA
	_, err := env.handler.Deliver(env.ctx(env.maker), env.db, &ledgertest.Tx{Msg: msg})
	assert.True(t, ErrInvalidAsset.Is(err), "got %+v", err)
}

func TestMakeRequiresMakerSignature(t *testing.T) {
	env := newSwapEnv(t)

	tx := &ledgertest.Tx{Msg: env.makeMsg(1, 100, 100)}
	_, err := env.handler.Deliver(env.ctx(env.taker), env.db, tx)
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %+v", err)
}

func TestTake(t *testing.T) {
	env := newSwapEnv(t)

	// The maker deposits 1,000,000 units of asset A and requests
	// 1,000,000 units of asset B.
	escrow, err := env.make(1, initialBalance, initialBalance)
	require.NoError(t, err)
	vault := VaultAddress(escrow, env.mintA)

	require.NoError(t, env.take(env.taker, escrow, vault))

	assert.Equal(t, initialBalance, env.balance(env.taker.Address(), env.mintA))
	assert.Equal(t, initialBalance, env.balance(env.maker.Address(), env.mintB))
	assert.Equal(t, uint64(0), env.balance(env.maker.Address(), env.mintA))
	assert.Equal(t, uint64(0), env.balance(env.taker.Address(), env.mintB))

	// Record and vault cease to exist.
	assert.False(t, env.escrowExists(escrow))
	assert.False(t, env.vaultExists(vault))
}

func TestTakeInsufficientPayment(t *testing.T) {
	env := newSwapEnv(t)

	escrow, err := env.make(1, 500, initialBalance+1)
	require.NoError(t, err)
	vault := VaultAddress(escrow, env.mintA)

	err = env.take(env.taker, escrow, vault)
	assert.True(t, errors.ErrInsufficientAmount.Is(err), "got %+v", err)

	// Nothing moved and the escrow is still open.
	assert.True(t, env.escrowExists(escrow))
	assert.Equal(t, uint64(500), env.balance(escrow, env.mintA))
	assert.Equal(t, initialBalance, env.balance(env.taker.Address(), env.mintB))
	assert.Equal(t, uint64(0), env.balance(env.maker.Address(), env.mintB))

	// The maker can still back out.
	require.NoError(t, env.refund(env.maker, escrow, vault))
	assert.Equal(t, initialBalance, env.balance(env.maker.Address(), env.mintA))
}

func TestTakeValidatesDerivation(t *testing.T) {
	env := newSwapEnv(t)

	escrow, err := env.make(1, 500, 500)
	require.NoError(t, err)
	vault := VaultAddress(escrow, env.mintA)

	// A substituted vault is rejected.
	wrongVault := token.HoldingAddress(env.taker.Address(), env.mintA)
	err = env.take(env.taker, escrow, wrongVault)
	assert.True(t, ErrDerivationMismatch.Is(err), "got %+v", err)

	// An address without a record is rejected.
	err = env.take(env.taker, ledgertest.NewCondition().Address(), vault)
	assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)

	// The escrow is untouched by the failed attempts.
	assert.True(t, env.escrowExists(escrow))
	assert.Equal(t, uint64(500), env.balance(escrow, env.mintA))
}

func TestRefund(t *testing.T) {
	env := newSwapEnv(t)

	escrow, err := env.make(1, 700, 900)
	require.NoError(t, err)
	vault := VaultAddress(escrow, env.mintA)

	require.NoError(t, env.refund(env.maker, escrow, vault))

	// Net zero for the maker over make plus refund.
	assert.Equal(t, initialBalance, env.balance(env.maker.Address(), env.mintA))
	assert.Equal(t, initialBalance, env.balance(env.taker.Address(), env.mintB))
	assert.False(t, env.escrowExists(escrow))
	assert.False(t, env.vaultExists(vault))
}

func TestRefundUnauthorized(t *testing.T) {
	env := newSwapEnv(t)

	escrow, err := env.make(1, 700, 900)
	require.NoError(t, err)
	vault := VaultAddress(escrow, env.mintA)

	err = env.refund(env.taker, escrow, vault)
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %+v", err)

	// The escrow stays open and funded.
	assert.True(t, env.escrowExists(escrow))
	assert.Equal(t, uint64(700), env.balance(escrow, env.mintA))
	assert.Equal(t, initialBalance-700, env.balance(env.maker.Address(), env.mintA))
}

func TestTakeAndRefundAreMutuallyExclusive(t *testing.T) {
	t.Run("take first", func(t *testing.T) {
		env := newSwapEnv(t)
		escrow, err := env.make(1, 500, 500)
		require.NoError(t, err)
		vault := VaultAddress(escrow, env.mintA)

		require.NoError(t, env.take(env.taker, escrow, vault))
		err = env.refund(env.maker, escrow, vault)
		assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)

		assert.Equal(t, uint64(500), env.balance(env.taker.Address(), env.mintA))
	})

	t.Run("refund first", func(t *testing.T) {
		env := newSwapEnv(t)
		escrow, err := env.make(1, 500, 500)
		require.NoError(t, err)
		vault := VaultAddress(escrow, env.mintA)

		require.NoError(t, env.refund(env.maker, escrow, vault))
		err = env.take(env.taker, escrow, vault)
		assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)

		assert.Equal(t, initialBalance, env.balance(env.maker.Address(), env.mintA))
		assert.Equal(t, initialBalance, env.balance(env.taker.Address(), env.mintB))
	})
}

func TestCheckDoesNotMutate(t *testing.T) {
	env := newSwapEnv(t)

	tx := &ledgertest.Tx{Msg: env.makeMsg(1, 100, 100)}
	res, err := env.handler.Check(env.ctx(env.maker), env.db, tx)
	require.NoError(t, err)
	assert.Equal(t, makeCost, res.GasAllocated)

	escrow, _, err := DeriveEscrowAddress(env.maker.Address(), 1)
	require.NoError(t, err)
	assert.False(t, env.escrowExists(escrow))
	assert.Equal(t, initialBalance, env.balance(env.maker.Address(), env.mintA))
}

func TestAccountReserve(t *testing.T) {
	env := newSwapEnv(t)

	// Reserve bookkeeping is paid in a third asset.
	reserveMint := ledgertest.NewCondition().Address()
	require.NoError(t, env.ctrl.CreateMint(env.db, reserveMint, "Reserve", 9))
	require.NoError(t, env.ctrl.Issue(env.db, reserveMint, env.maker.Address(), 1000))
	conf := Config{
		Metadata:       &ledger.Metadata{Schema: 1},
		ReserveMint:    reserveMint,
		AccountReserve: 50,
	}
	require.NoError(t, gconf.Save(env.db, "swap", &conf))

	escrow, err := env.make(1, 500, 500)
	require.NoError(t, err)

	// Two accounts were created, two reserves are locked.
	assert.Equal(t, uint64(900), env.balance(env.maker.Address(), reserveMint))
	assert.Equal(t, uint64(100), env.balance(escrow, reserveMint))

	// Closing the escrow refunds the reserve in full to the maker, no
	// matter who closed it.
	require.NoError(t, env.take(env.taker, escrow, VaultAddress(escrow, env.mintA)))
	assert.Equal(t, uint64(1000), env.balance(env.maker.Address(), reserveMint))
	assert.Equal(t, uint64(0), env.balance(escrow, reserveMint))
	assert.False(t, env.vaultExists(token.HoldingAddress(escrow, reserveMint)))
}

func TestAccountReserveShortFunds(t *testing.T) {
	env := newSwapEnv(t)

	reserveMint := ledgertest.NewCondition().Address()
	require.NoError(t, env.ctrl.CreateMint(env.db, reserveMint, "Reserve", 9))
	require.NoError(t, env.ctrl.Issue(env.db, reserveMint, env.maker.Address(), 10))
	conf := Config{
		Metadata:       &ledger.Metadata{Schema: 1},
		ReserveMint:    reserveMint,
		AccountReserve: 50,
	}
	require.NoError(t, gconf.Save(env.db, "swap", &conf))

	_, err := env.make(1, 500, 500)
	assert.True(t, errors.ErrInsufficientAmount.Is(err), "got %+v", err)

	// The whole instruction rolled back, including the deposit.
	assert.Equal(t, initialBalance, env.balance(env.maker.Address(), env.mintA))
	escrow, _, err := DeriveEscrowAddress(env.maker.Address(), 1)
	require.NoError(t, err)
	assert.False(t, env.escrowExists(escrow))
}
