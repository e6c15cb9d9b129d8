package swap

import (
	"testing"

	"github.com/stackbound/ledger"
	"github.com/stackbound/ledger/ledgertest"
	"github.com/stackbound/ledger/x/token"
)

func TestDeriveEscrowAddress(t *testing.T) {
	maker := ledgertest.NewCondition().Address()

	addr, bump, err := DeriveEscrowAddress(maker, 1)
	if err != nil {
		t.Fatalf("cannot derive: %+v", err)
	}
	if err := addr.Validate(); err != nil {
		t.Fatalf("derived address is invalid: %+v", err)
	}
	if addr.Equals(maker) {
		t.Fatal("derived address must not be the maker's own address")
	}

	// The derivation must be a pure function.
	again, bump2, err := DeriveEscrowAddress(maker, 1)
	if err != nil {
		t.Fatalf("cannot derive: %+v", err)
	}
	if !addr.Equals(again) || bump != bump2 {
		t.Fatalf("derivation is not deterministic: %s/%d != %s/%d", addr, bump, again, bump2)
	}

	// Re-deriving with the recorded bump must not require a search.
	if got := EscrowAddress(maker, 1, bump); !got.Equals(addr) {
		t.Fatalf("re-derivation mismatch: %s != %s", got, addr)
	}
}

func TestDeriveEscrowAddressIsUnique(t *testing.T) {
	alice := ledgertest.NewCondition().Address()
	bob := ledgertest.NewCondition().Address()

	seen := make(map[string]struct{})
	for _, maker := range []ledger.Address{alice, bob} {
		for seed := uint64(0); seed < 10; seed++ {
			addr, _, err := DeriveEscrowAddress(maker, seed)
			if err != nil {
				t.Fatalf("cannot derive: %+v", err)
			}
			if _, ok := seen[string(addr)]; ok {
				t.Fatalf("address collision for maker %s seed %d", maker, seed)
			}
			seen[string(addr)] = struct{}{}
		}
	}
}

func TestVaultAddress(t *testing.T) {
	maker := ledgertest.NewCondition().Address()
	mint := ledgertest.NewCondition().Address()
	escrow, _, err := DeriveEscrowAddress(maker, 1)
	if err != nil {
		t.Fatalf("cannot derive: %+v", err)
	}

	vault := VaultAddress(escrow, mint)
	if err := vault.Validate(); err != nil {
		t.Fatalf("vault address is invalid: %+v", err)
	}
	// The vault is the escrow record's own holding of the asset.
	if !vault.Equals(token.HoldingAddress(escrow, mint)) {
		t.Fatal("vault address must be the record's holding address")
	}
	if vault.Equals(token.HoldingAddress(maker, mint)) {
		t.Fatal("vault address must not be the maker's holding address")
	}
}
