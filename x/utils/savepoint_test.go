package utils

import (
	"context"
	"testing"

	"github.com/stackbound/ledger"
	"github.com/stackbound/ledger/errors"
	"github.com/stackbound/ledger/ledgertest"
	"github.com/stackbound/ledger/ledgertest/assert"
	"github.com/stackbound/ledger/store"
)

// writingHandler writes a key and then optionally fails.
type writingHandler struct {
	key, value []byte
	err        error
}

var _ ledger.Handler = writingHandler{}

func (h writingHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{}, h.err
}

func (h writingHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{}, h.err
}

func TestSavepointCommitsOnSuccess(t *testing.T) {
	h := writingHandler{key: []byte("a"), value: []byte("1")}
	sp := NewSavepoint().OnDeliver()

	db := store.MemStore()
	_, err := sp.Deliver(context.Background(), db, &ledgertest.Tx{}, h)
	assert.Nil(t, err)

	value, err := db.Get([]byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("1"), value)
}

func TestSavepointRollsBackOnError(t *testing.T) {
	broken := errors.Wrap(errors.ErrHuman, "failing on purpose")
	h := writingHandler{key: []byte("a"), value: []byte("1"), err: broken}
	sp := NewSavepoint().OnDeliver().OnCheck()

	db := store.MemStore()

	_, err := sp.Deliver(context.Background(), db, &ledgertest.Tx{}, h)
	assert.IsErr(t, errors.ErrHuman, err)
	value, err := db.Get([]byte("a"))
	assert.Nil(t, err)
	assert.Nil(t, value)

	_, err = sp.Check(context.Background(), db, &ledgertest.Tx{}, h)
	assert.IsErr(t, errors.ErrHuman, err)
	value, err = db.Get([]byte("a"))
	assert.Nil(t, err)
	assert.Nil(t, value)
}

func TestSavepointDisabledIsPassThrough(t *testing.T) {
	broken := errors.Wrap(errors.ErrHuman, "failing on purpose")
	h := writingHandler{key: []byte("a"), value: []byte("1"), err: broken}
	sp := NewSavepoint()

	// Without OnDeliver the writes of a failed call stay.
	db := store.MemStore()
	_, err := sp.Deliver(context.Background(), db, &ledgertest.Tx{}, h)
	assert.IsErr(t, errors.ErrHuman, err)
	value, err := db.Get([]byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("1"), value)
}
