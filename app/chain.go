package app

import (
	"github.com/stackbound/ledger"
)

// Stack is a list of decorators that wait for a final handler. Build it
// with ChainDecorators and seal it with WithHandler.
type Stack struct {
	chain []ledger.Decorator
}

// ChainDecorators takes a chain of decorators. The first decorator wraps
// all the rest.
func ChainDecorators(chain ...ledger.Decorator) Stack {
	return Stack{chain: chain}
}

// Chain appends more decorators to the stack.
func (s Stack) Chain(chain ...ledger.Decorator) Stack {
	return Stack{chain: append(s.chain, chain...)}
}

// WithHandler seals the stack: every call passes through the decorators
// in order before reaching the handler.
func (s Stack) WithHandler(h ledger.Handler) ledger.Handler {
	for i := len(s.chain) - 1; i >= 0; i-- {
		h = decoratedHandler{d: s.chain[i], next: h}
	}
	return h
}

type decoratedHandler struct {
	d    ledger.Decorator
	next ledger.Handler
}

var _ ledger.Handler = decoratedHandler{}

func (h decoratedHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	return h.d.Check(ctx, db, tx, h.next)
}

func (h decoratedHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	return h.d.Deliver(ctx, db, tx, h.next)
}
