package config

import (
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"

	"github.com/weft-dev/weft/pkg/errors"
	"github.com/weft-dev/weft/pkg/logging"
)

// Loader discovers configuration documents into a session and links the
// resulting hierarchy. Parsing and linking are separate passes: every
// document must be parsed before any parent reference can be resolved.
type Loader struct {
	session *Session
	logger  zerolog.Logger
}

// NewLoader creates a loader for the given session.
func NewLoader(session *Session) *Loader {
	return &Loader{
		session: session,
		logger:  logging.GetLogger("config.loader"),
	}
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrInternal, "not implemented")
}

// LoadFile parses one configuration document from disk. The format is
// chosen by extension: .toml documents use TOML, everything else JSON. The
// configuration is registered under the file's base name.
func (l *Loader) LoadFile(path string) (*Config, error) {
	var parser koanf.Parser = json.Parser()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		parser = toml.Parser()
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDocumentLoad, "failed to load configuration %s", path)
	}

	return l.parse(filepath.Base(path), k)
}

// Parse parses one JSON configuration document from memory, registering it
// under the given name.
func (l *Loader) Parse(name string, data []byte) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: data}, json.Parser()); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDocumentParse, "failed to parse configuration %s", name)
	}

	return l.parse(name, k)
}

func (l *Loader) parse(name string, k *koanf.Koanf) (*Config, error) {
	if existing := l.session.configs.ByName(name); existing != nil {
		return nil, errors.Newf(errors.ErrAlreadyExists, "configuration %s was already loaded", name)
	}

	config := newConfig(name, l.session)
	if err := k.Unmarshal("", config); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDocumentParse, "malformed configuration %s", name)
	}

	if config.MixinPackage == "" {
		return nil, errors.Newf(errors.ErrDocumentValid,
			`configuration %s is missing the required "package" property`, name)
	}

	l.session.configs.Add(config)
	l.logger.Debug().
		Str("config", name).
		Int("declared", config.DeclaredUnitCount()).
		Msg("Parsed configuration")
	return config, nil
}

// LinkAll resolves parents and links every raw configuration in the
// session. Linking proceeds in passes so that document discovery order
// never matters: a pass links every configuration whose parent is already
// linked, and a pass that links nothing while work remains means the
// remaining configurations form a cycle. Missing parents and cycles fail
// loudly.
func (l *Loader) LinkAll() error {
	var pending []*Config
	for _, config := range l.session.configs.All() {
		if config.State() == StateRaw {
			pending = append(pending, config)
		}
	}

	for len(pending) > 0 {
		var remaining []*Config
		progress := false

		for _, config := range pending {
			var parent *Config
			if config.ParentName != "" {
				parent = l.session.configs.ByName(config.ParentName)
				if parent == nil {
					return errors.Newf(errors.ErrParentMissing,
						"configuration %s declares parent %s which was never loaded",
						config.Name, config.ParentName)
				}
				if parent.State() == StateRaw {
					remaining = append(remaining, config)
					continue
				}
			}

			applied, err := config.Link(parent)
			if err != nil {
				return err
			}
			if !applied {
				l.logger.Warn().
					Str("config", config.Name).
					Msg("Configuration was discarded by its version gate")
			}
			progress = true
		}

		if !progress {
			names := make([]string, len(remaining))
			for i, config := range remaining {
				names[i] = config.Name
			}
			return errors.Newf(errors.ErrParentCycle,
				"configuration hierarchy contains a parent cycle involving %s",
				strings.Join(names, ", "))
		}
		pending = remaining
	}

	return nil
}

// Select evaluates every linked configuration against the session's active
// environment, returning the selected configurations in application order.
func (l *Loader) Select() []*Config {
	active := l.session.ActiveEnvironment()

	var selected []*Config
	for _, config := range l.session.configs.Sorted() {
		if config.Select(active) {
			selected = append(selected, config)
		}
	}
	return selected
}

// Prepare prepares every selected configuration, binding declared units to
// their resolved targets. Failures in required configurations abort.
func (l *Loader) Prepare(resolver UnitResolver) error {
	for _, config := range l.session.configs.Sorted() {
		if config.State() != StateSelected {
			continue
		}
		if err := config.Prepare(resolver); err != nil {
			return err
		}
	}
	return nil
}

// PostInitialise finalises every prepared configuration: plugin units are
// prepared, retained units validated and listeners notified.
func (l *Loader) PostInitialise(resolver UnitResolver) error {
	for _, config := range l.session.configs.Sorted() {
		if config.State() != StatePrepared {
			continue
		}
		if err := config.PostInitialise(resolver); err != nil {
			return err
		}
	}
	return nil
}
