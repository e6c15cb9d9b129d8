package swap

import (
	"testing"

	"github.com/stackbound/ledger"
	"github.com/stackbound/ledger/errors"
	"github.com/stackbound/ledger/ledgertest"
)

func validEscrow() *Escrow {
	maker := ledgertest.NewCondition().Address()
	_, bump, _ := DeriveEscrowAddress(maker, 5)
	return &Escrow{
		Metadata:        &ledger.Metadata{Schema: 1},
		Maker:           maker,
		Seed:            5,
		MintA:           ledgertest.NewCondition().Address(),
		MintB:           ledgertest.NewCondition().Address(),
		AmountRequested: 100,
		Bump:            uint32(bump),
	}
}

func TestEscrowValidate(t *testing.T) {
	cases := map[string]struct {
		mutate  func(*Escrow)
		wantErr *errors.Error
	}{
		"valid": {
			mutate: func(*Escrow) {},
		},
		"missing metadata": {
			mutate:  func(e *Escrow) { e.Metadata = nil },
			wantErr: errors.ErrMetadata,
		},
		"missing maker": {
			mutate:  func(e *Escrow) { e.Maker = nil },
			wantErr: errors.ErrEmpty,
		},
		"same asset": {
			mutate:  func(e *Escrow) { e.MintB = e.MintA },
			wantErr: ErrInvalidAsset,
		},
		"zero amount requested": {
			mutate:  func(e *Escrow) { e.AmountRequested = 0 },
			wantErr: errors.ErrAmount,
		},
		"bump out of range": {
			mutate:  func(e *Escrow) { e.Bump = 256 },
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			escrow := validEscrow()
			tc.mutate(escrow)
			if err := escrow.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected validation error: %+v", err)
			}
		})
	}
}

func TestEscrowAddressRederivation(t *testing.T) {
	escrow := validEscrow()
	want, bump, err := DeriveEscrowAddress(escrow.Maker, escrow.Seed)
	if err != nil {
		t.Fatalf("cannot derive: %+v", err)
	}
	escrow.Bump = uint32(bump)
	if got := escrow.Address(); !got.Equals(want) {
		t.Fatalf("record address mismatch: %s != %s", got, want)
	}

	// A tampered record must not re-derive to the same address.
	escrow.Seed++
	if got := escrow.Address(); got.Equals(want) {
		t.Fatal("tampered record re-derives to the original address")
	}
}

func TestEscrowCopyIsIndependent(t *testing.T) {
	original := validEscrow()
	cpy := original.Copy().(*Escrow)
	cpy.AmountRequested = 1
	cpy.Maker[0] ^= 0xff

	if original.AmountRequested != 100 {
		t.Fatal("copy shares the requested amount")
	}
	if original.Maker.Equals(cpy.Maker) {
		t.Fatal("copy shares the maker address")
	}
}
