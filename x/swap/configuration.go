package swap

import (
	"math"

	"github.com/stackbound/ledger/errors"
	"github.com/stackbound/ledger/gconf"
)

// Validate implements gconf.Configuration requirements.
func (c *Config) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if c.AccountReserve == 0 {
		return nil
	}
	if err := c.ReserveMint.Validate(); err != nil {
		return errors.Wrap(err, "reserve mint")
	}
	// Make locks two reserves at once (record and vault).
	if c.AccountReserve > math.MaxUint64/2 {
		return errors.Wrap(errors.ErrOverflow, "account reserve")
	}
	return nil
}

// loadConf returns the configuration of this extension.
// ErrNotFound is returned when none was ever stored.
func loadConf(db gconf.ReadStore) (Config, error) {
	var c Config
	err := gconf.Load(db, "swap", &c)
	return c, err
}
