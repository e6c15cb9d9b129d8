package token

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackbound/ledger"
	"github.com/stackbound/ledger/ledgertest"
	"github.com/stackbound/ledger/store"
)

func TestGenesisInitializer(t *testing.T) {
	mint := ledgertest.NewCondition().Address()
	alice := ledgertest.NewCondition().Address()
	bob := ledgertest.NewCondition().Address()

	genesis := fmt.Sprintf(`{
		"mints": [
			{"address": %q, "name": "Base Asset", "decimals": 6}
		],
		"holdings": [
			{"owner": %q, "mint": %q, "balance": 1000000},
			{"owner": %q, "mint": %q, "balance": 0}
		]
	}`, mint, alice, mint, bob, mint)
	opts := ledger.Options{"token": json.RawMessage(genesis)}

	db := store.MemStore()
	var ini Initializer
	require.NoError(t, ini.FromGenesis(opts, db))

	ctrl := NewController()
	balance, err := ctrl.Balance(db, HoldingAddress(alice, mint))
	require.NoError(t, err)
	assert.Equal(t, uint64(1000000), balance)

	// The zero balance entry still creates the holding.
	balance, err = ctrl.Balance(db, HoldingAddress(bob, mint))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), balance)
}
