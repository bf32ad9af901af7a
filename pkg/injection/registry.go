package injection

import (
	"strings"

	"github.com/weft-dev/weft/pkg/errors"
	"github.com/weft-dev/weft/pkg/logging"
	"github.com/weft-dev/weft/pkg/registry"
)

// pointFactories maps rule code names (case-insensitive) to factories.
// Built-in points register here from init(); host-supplied points arrive
// through RegisterProvided.
var pointFactories = registry.New[Factory]()

// Register associates a code name with a point factory. Registration fails
// if the code name is already taken; built-ins use this path so that a
// colliding built-in is caught at startup.
func Register(code string, factory Factory) error {
	if factory == nil {
		return errors.New(errors.ErrInvalidInput, "point factory cannot be nil")
	}
	return pointFactories.Register(canonical(code), factory)
}

// MustRegister registers a built-in point factory and panics on failure.
func MustRegister(code string, factory Factory) {
	registry.MustRegister(pointFactories, canonical(code), factory)
}

// Resolve returns the factory registered under the given code name.
func Resolve(code string) (Factory, error) {
	factory, err := pointFactories.Get(canonical(code))
	if err != nil {
		return nil, errors.Newf(errors.ErrPointNotFound, "no injection point registered for code '%s'", code)
	}
	return factory, nil
}

// Registered reports whether a factory exists for the given code name.
func Registered(code string) bool {
	return pointFactories.Has(canonical(code))
}

// Codes returns every registered code name in sorted order.
func Codes() []string {
	return pointFactories.List()
}

// CreatePoint resolves a code name and constructs a point from the supplied
// rule arguments.
func CreatePoint(code string, args map[string]string) (Point, error) {
	factory, err := Resolve(code)
	if err != nil {
		return nil, err
	}
	point, err := factory(NewData(args))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPointInvalid, "failed to create injection point '%s'", code)
	}
	return point, nil
}

// RegisterProvided registers a host-supplied injection point. The value must
// satisfy the Provider capability interface and yield a usable factory;
// either check failing returns a coded error the caller logs and skips.
// Re-registration of an existing code name is last-registered-wins, logged
// at warn level.
func RegisterProvided(name string, value interface{}) error {
	provider, ok := value.(Provider)
	if !ok {
		return errors.Newf(errors.ErrPointInvalid,
			"provided injection point '%s' does not implement the Provider interface", name)
	}

	factory := provider.Factory()
	if factory == nil {
		return errors.Newf(errors.ErrPointInvalid,
			"provided injection point '%s' returned a nil factory", name)
	}

	code := canonical(provider.Code())
	if code == "" {
		return errors.Newf(errors.ErrPointInvalid,
			"provided injection point '%s' declares an empty code name", name)
	}

	if replaced := pointFactories.Put(code, factory); replaced {
		logger := logging.GetLogger("injection.registry")
		logger.Warn().
			Str("code", code).
			Str("provider", name).
			Msg("injection point re-registered, last registration wins")
	}
	return nil
}

func canonical(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
