package ledgertest

import (
	"github.com/stackbound/ledger"
)

// Handler is a mock implementing ledger.Handler interface.
type Handler struct {
	CheckCall   int
	CheckResult ledger.CheckResult
	CheckErr    error

	DeliverCall   int
	DeliverResult ledger.DeliverResult
	DeliverErr    error
}

var _ ledger.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	h.CheckCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	h.DeliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

// CallCount returns the total number of times this handler was used.
func (h *Handler) CallCount() int {
	return h.CheckCall + h.DeliverCall
}
