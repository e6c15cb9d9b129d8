package swap

import (
	"github.com/stackbound/ledger"
	"github.com/stackbound/ledger/errors"
	"github.com/stackbound/ledger/gconf"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ ledger.Initializer = (*Initializer)(nil)

// FromGenesis will parse the configuration from genesis and store it in
// the database. Missing configuration is allowed, reserve bookkeeping
// stays disabled then.
func (Initializer) FromGenesis(opts ledger.Options, db ledger.KVStore) error {
	var confOpts ledger.Options
	if err := opts.ReadOptions("conf", &confOpts); err != nil {
		return errors.Wrap(err, "read conf")
	}
	if confOpts["swap"] == nil {
		return nil
	}
	return gconf.InitConfig(db, opts, "swap", &Config{})
}
