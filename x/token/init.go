package token

import (
	"github.com/stackbound/ledger"
	"github.com/stackbound/ledger/errors"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ ledger.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial account info from genesis and save it
// to the database.
func (Initializer) FromGenesis(opts ledger.Options, db ledger.KVStore) error {
	var genesis struct {
		Mints []struct {
			Address  ledger.Address `json:"address"`
			Name     string         `json:"name"`
			Decimals uint32         `json:"decimals"`
		} `json:"mints"`
		Holdings []struct {
			Owner   ledger.Address `json:"owner"`
			Mint    ledger.Address `json:"mint"`
			Balance uint64         `json:"balance"`
		} `json:"holdings"`
	}
	if err := opts.ReadOptions("token", &genesis); err != nil {
		return errors.Wrap(err, "read token genesis")
	}

	ctrl := NewController()
	for i, m := range genesis.Mints {
		if err := ctrl.CreateMint(db, m.Address, m.Name, m.Decimals); err != nil {
			return errors.Wrapf(err, "mint #%d", i)
		}
	}
	for i, h := range genesis.Holdings {
		if h.Balance == 0 {
			if _, err := ctrl.EnsureHolding(db, h.Owner, h.Mint); err != nil {
				return errors.Wrapf(err, "holding #%d", i)
			}
			continue
		}
		if err := ctrl.Issue(db, h.Mint, h.Owner, h.Balance); err != nil {
			return errors.Wrapf(err, "holding #%d", i)
		}
	}
	return nil
}
