package ledger

import (
	"context"
	"io/ioutil"
	"testing"
	"time"

	"github.com/tendermint/tendermint/libs/log"
)

func TestContextHeight(t *testing.T) {
	ctx := context.Background()
	if _, ok := GetHeight(ctx); ok {
		t.Fatal("fresh context must not carry a height")
	}

	ctx = WithHeight(ctx, 42)
	if height, ok := GetHeight(ctx); !ok || height != 42 {
		t.Fatalf("unexpected height: %d (%v)", height, ok)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("overwriting the height must panic")
		}
	}()
	WithHeight(ctx, 43)
}

func TestContextBlockTime(t *testing.T) {
	ctx := context.Background()
	if _, err := BlockTime(ctx); err == nil {
		t.Fatal("missing block time must be an error")
	}

	now := time.Now()
	ctx = WithBlockTime(ctx, now)
	got, err := BlockTime(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if !got.Equal(now) {
		t.Fatalf("unexpected block time: %v", got)
	}
	if got.Location() != time.UTC {
		t.Fatal("block time must be normalized to UTC")
	}
}

func TestContextLogger(t *testing.T) {
	ctx := context.Background()
	if GetLogger(ctx) != DefaultLogger {
		t.Fatal("expected the default logger")
	}

	// The nop DefaultLogger returns itself from With, so install a
	// real logger before testing derivation.
	base := log.NewTMLogger(ioutil.Discard)
	ctx = WithLogger(ctx, base)
	if GetLogger(ctx) != base {
		t.Fatal("expected the installed logger")
	}

	ctx = WithLogInfo(ctx, "module", "swap")
	if got := GetLogger(ctx); got == base || got == DefaultLogger {
		t.Fatal("expected a derived logger")
	}
}

func TestMetadataValidate(t *testing.T) {
	var meta *Metadata
	if err := meta.Validate(); err == nil {
		t.Fatal("nil metadata must not validate")
	}
	if err := (&Metadata{}).Validate(); err == nil {
		t.Fatal("zero schema must not validate")
	}
	if err := (&Metadata{Schema: CurrentSchema + 1}).Validate(); err == nil {
		t.Fatal("future schema must not validate")
	}
	if err := (&Metadata{Schema: 1}).Validate(); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestMetadataCopy(t *testing.T) {
	meta := &Metadata{Schema: 1}
	cpy := meta.Copy()
	cpy.Schema = 2
	if meta.Schema != 1 {
		t.Fatal("copy must not share state")
	}
	var nilMeta *Metadata
	if nilMeta.Copy() != nil {
		t.Fatal("copy of nil must be nil")
	}
}
