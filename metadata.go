package ledger

import (
	"github.com/stackbound/ledger/errors"
)

// CurrentSchema is the schema version that this codebase persists. All
// payloads are written with this schema and any other version read from
// the store is refused.
const CurrentSchema uint32 = 1

// Validate ensures that the metadata is frontloaded on the entity and
// carries a supported schema version.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMetadata, "missing metadata")
	}
	if m.Schema == 0 {
		return errors.Wrap(errors.ErrMetadata, "schema version is required")
	}
	if m.Schema != CurrentSchema {
		return errors.Wrapf(errors.ErrSchema, "schema version %d not supported", m.Schema)
	}
	return nil
}

// Copy returns a copy of this object. This method is helpful when
// implementing orm.CloneableData interface to make a copy of the header.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}
