package token

import (
	"testing"

	"github.com/stackbound/ledger"
	"github.com/stackbound/ledger/errors"
	"github.com/stackbound/ledger/ledgertest"
)

func TestTokenValidate(t *testing.T) {
	cases := map[string]struct {
		token   Token
		wantErr *errors.Error
	}{
		"valid": {
			token: Token{
				Metadata: &ledger.Metadata{Schema: 1},
				Name:     "Base Asset",
				Decimals: 6,
			},
		},
		"missing metadata": {
			token: Token{
				Name: "Base Asset",
			},
			wantErr: errors.ErrMetadata,
		},
		"missing name": {
			token: Token{
				Metadata: &ledger.Metadata{Schema: 1},
			},
			wantErr: errors.ErrInput,
		},
		"name too long": {
			token: Token{
				Metadata: &ledger.Metadata{Schema: 1},
				Name:     "this name is way too long to be a reasonable asset label",
			},
			wantErr: errors.ErrInput,
		},
		"too many decimals": {
			token: Token{
				Metadata: &ledger.Metadata{Schema: 1},
				Name:     "Base Asset",
				Decimals: 19,
			},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.token.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected validation error: %+v", err)
			}
		})
	}
}

func TestHoldingValidate(t *testing.T) {
	owner := ledgertest.NewCondition().Address()
	mint := ledgertest.NewCondition().Address()

	cases := map[string]struct {
		holding Holding
		wantErr *errors.Error
	}{
		"valid": {
			holding: Holding{
				Metadata: &ledger.Metadata{Schema: 1},
				Owner:    owner,
				Mint:     mint,
				Balance:  42,
			},
		},
		"missing metadata": {
			holding: Holding{
				Owner: owner,
				Mint:  mint,
			},
			wantErr: errors.ErrMetadata,
		},
		"missing owner": {
			holding: Holding{
				Metadata: &ledger.Metadata{Schema: 1},
				Mint:     mint,
			},
			wantErr: errors.ErrEmpty,
		},
		"malformed mint": {
			holding: Holding{
				Metadata: &ledger.Metadata{Schema: 1},
				Owner:    owner,
				Mint:     []byte("too short"),
			},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.holding.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected validation error: %+v", err)
			}
		})
	}
}

func TestHoldingAddress(t *testing.T) {
	alice := ledgertest.NewCondition().Address()
	bob := ledgertest.NewCondition().Address()
	mintA := ledgertest.NewCondition().Address()
	mintB := ledgertest.NewCondition().Address()

	addr := HoldingAddress(alice, mintA)
	if err := addr.Validate(); err != nil {
		t.Fatalf("derived address is invalid: %+v", err)
	}

	// The derivation must be a pure function.
	if other := HoldingAddress(alice, mintA); !addr.Equals(other) {
		t.Fatalf("address derivation is not deterministic: %s != %s", addr, other)
	}

	// Distinct inputs must map to distinct addresses.
	distinct := []ledger.Address{
		HoldingAddress(alice, mintB),
		HoldingAddress(bob, mintA),
		HoldingAddress(bob, mintB),
	}
	for i, d := range distinct {
		if addr.Equals(d) {
			t.Fatalf("address collision for input %d", i)
		}
	}
}

func TestHoldingCopyIsIndependent(t *testing.T) {
	original := Holding{
		Metadata: &ledger.Metadata{Schema: 1},
		Owner:    ledgertest.NewCondition().Address(),
		Mint:     ledgertest.NewCondition().Address(),
		Balance:  100,
	}
	cpy := original.Copy().(*Holding)
	cpy.Balance = 5
	cpy.Owner[0] ^= 0xff

	if original.Balance != 100 {
		t.Fatal("copy shares the balance")
	}
	if original.Owner.Equals(cpy.Owner) {
		t.Fatal("copy shares the owner address")
	}
}
