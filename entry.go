package keystate

// Entry is the argument shape accepted by Store, Define, and Register: either
// a literal key/value mapping or an initializer called with the target
// instance. It is an explicit two-arm variant; the zero Entry is invalid and
// is rejected at the API boundary.
type Entry struct {
	values map[string]any
	init   func(*Instance) map[string]any
}

// Values builds an Entry from a literal key/value mapping.
func Values(values map[string]any) Entry {
	return Entry{values: values}
}

// Init builds an Entry from an initializer function. The function receives
// the target instance, which enables self-referential setup such as
// registering listeners while an instance is being created:
//
//	keystate.Init(func(in *keystate.Instance) map[string]any {
//	    in.On(keystate.Key("count"), logChange)
//	    return map[string]any{"count": 0}
//	})
func Init(fn func(*Instance) map[string]any) Entry {
	return Entry{init: fn}
}

// resolve evaluates the entry against inst. The second return is false when
// the entry is the zero value or the initializer produced nothing.
func (e Entry) resolve(inst *Instance) (map[string]any, bool) {
	switch {
	case e.values != nil:
		return e.values, true
	case e.init != nil:
		values := e.init(inst)
		return values, values != nil
	default:
		return nil, false
	}
}

// ConfigSource is the argument shape accepted by SetConfig and UpdateConfig:
// either a literal Config or an initializer called with the target instance.
type ConfigSource struct {
	cfg  *Config
	init func(*Instance) *Config
}

// Configure builds a ConfigSource from a literal Config.
func Configure(cfg Config) ConfigSource {
	return ConfigSource{cfg: &cfg}
}

// ConfigureFrom builds a ConfigSource from an initializer function.
func ConfigureFrom(fn func(*Instance) *Config) ConfigSource {
	return ConfigSource{init: fn}
}

// resolve evaluates the source against inst. The second return is false when
// the source is the zero value or the initializer returned nil.
func (s ConfigSource) resolve(inst *Instance) (Config, bool) {
	switch {
	case s.cfg != nil:
		return *s.cfg, true
	case s.init != nil:
		cfg := s.init(inst)
		if cfg == nil {
			return Config{}, false
		}
		return *cfg, true
	default:
		return Config{}, false
	}
}
