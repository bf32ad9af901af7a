// Package refmap reads reference maps: per-unit lookup tables translating
// symbolic references declared in a unit into the names used by the target
// environment.
package refmap

import (
	"io"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/v2"

	"github.com/weft-dev/weft/pkg/errors"
)

// Mapper resolves symbolic references for units of one configuration.
type Mapper struct {
	mappings  map[string]map[string]string
	isDefault bool
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrInternal, "not implemented")
}

// Default returns the empty mapper, used when no reference map resource is
// available. Lookups through it return the reference unchanged.
func Default() *Mapper {
	return &Mapper{
		mappings:  make(map[string]map[string]string),
		isDefault: true,
	}
}

// Read parses a JSON reference map document of the form
// {"mappings": {"unit": {"reference": "mapped"}}}.
func Read(r io.Reader) (*Mapper, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDocumentLoad, "failed to read reference map")
	}

	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: data}, json.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrDocumentParse, "failed to parse reference map")
	}

	mapper := &Mapper{mappings: make(map[string]map[string]string)}
	if err := k.Unmarshal("mappings", &mapper.mappings); err != nil {
		return nil, errors.Wrap(err, errors.ErrDocumentParse, "malformed reference map mappings")
	}
	return mapper, nil
}

// IsDefault reports whether this is the empty fallback mapper.
func (m *Mapper) IsDefault() bool {
	return m.isDefault
}

// Remap translates a reference declared by the given unit. Unknown units or
// references map to themselves.
func (m *Mapper) Remap(unitClass, reference string) string {
	if unitMap, ok := m.mappings[unitClass]; ok {
		if mapped, ok := unitMap[reference]; ok {
			return mapped
		}
	}
	return reference
}
