package swap

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/stackbound/ledger"
	"github.com/stackbound/ledger/errors"
	"github.com/stackbound/ledger/gconf"
	"github.com/stackbound/ledger/ledgertest"
	"github.com/stackbound/ledger/store"
)

func TestConfigValidate(t *testing.T) {
	mint := ledgertest.NewCondition().Address()

	cases := map[string]struct {
		conf    Config
		wantErr *errors.Error
	}{
		"valid": {
			conf: Config{
				Metadata:       &ledger.Metadata{Schema: 1},
				ReserveMint:    mint,
				AccountReserve: 100,
			},
		},
		"disabled without a mint": {
			conf: Config{
				Metadata: &ledger.Metadata{Schema: 1},
			},
		},
		"missing metadata": {
			conf: Config{
				ReserveMint:    mint,
				AccountReserve: 100,
			},
			wantErr: errors.ErrMetadata,
		},
		"reserve without a mint": {
			conf: Config{
				Metadata:       &ledger.Metadata{Schema: 1},
				AccountReserve: 100,
			},
			wantErr: errors.ErrEmpty,
		},
		"reserve too big to double": {
			conf: Config{
				Metadata:       &ledger.Metadata{Schema: 1},
				ReserveMint:    mint,
				AccountReserve: math.MaxUint64/2 + 1,
			},
			wantErr: errors.ErrOverflow,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.conf.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected validation error: %+v", err)
			}
		})
	}
}

func TestConfigRoundTrip(t *testing.T) {
	db := store.MemStore()
	mint := ledgertest.NewCondition().Address()
	conf := Config{
		Metadata:       &ledger.Metadata{Schema: 1},
		ReserveMint:    mint,
		AccountReserve: 42,
	}
	if err := gconf.Save(db, "swap", &conf); err != nil {
		t.Fatalf("cannot save: %+v", err)
	}

	loaded, err := loadConf(db)
	if err != nil {
		t.Fatalf("cannot load: %+v", err)
	}
	if !loaded.ReserveMint.Equals(mint) || loaded.AccountReserve != 42 {
		t.Fatalf("unexpected configuration: %+v", loaded)
	}
}

func TestGenesisInitializer(t *testing.T) {
	mint := ledgertest.NewCondition().Address()
	genesis := fmt.Sprintf(`{
		"swap": {
			"metadata": {"schema": 1},
			"reserve_mint": %q,
			"account_reserve": 50
		}
	}`, mint)
	opts := ledger.Options{"conf": json.RawMessage(genesis)}

	db := store.MemStore()
	var ini Initializer
	if err := ini.FromGenesis(opts, db); err != nil {
		t.Fatalf("cannot initialize: %+v", err)
	}

	conf, err := loadConf(db)
	if err != nil {
		t.Fatalf("cannot load: %+v", err)
	}
	if !conf.ReserveMint.Equals(mint) || conf.AccountReserve != 50 {
		t.Fatalf("unexpected configuration: %+v", conf)
	}
}

func TestGenesisInitializerMissingConfig(t *testing.T) {
	db := store.MemStore()
	var ini Initializer
	if err := ini.FromGenesis(ledger.Options{}, db); err != nil {
		t.Fatalf("missing configuration must not be an error: %+v", err)
	}
	if _, err := loadConf(db); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want no configuration stored, got %+v", err)
	}
}
