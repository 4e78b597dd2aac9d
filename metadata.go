package escrowd

import "github.com/iov-one/escrowd/errors"

// Metadata is embedded in every persisted model and message. Schema
// versions the serialized layout and must be set.
type Metadata struct {
	Schema uint32 `json:"schema"`
}

// Copy returns a copy of this object. This method is helpful when implementing
// orm.CloneableData interface to make a copy of the header.
func (m Metadata) Copy() Metadata {
	return m
}

// Validate returns an error if the schema version was not set.
func (m Metadata) Validate() error {
	if m.Schema == 0 {
		return errors.Wrap(errors.ErrMetadata, "schema version is required")
	}
	return nil
}
