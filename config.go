package keystate

// Validator is a per-key predicate consulted before a Store write commits.
// It receives the candidate value and returns whether the update is allowed.
// Keys without a validator accept every value.
type Validator func(value any) bool

// Config is the recognized per-instance configuration block.
type Config struct {
	// EmitOnStateSet forces an emission for every accepted Store write,
	// regardless of the per-call Silent option.
	EmitOnStateSet bool

	// Validators maps keys to their write predicates.
	Validators map[string]Validator
}

// merge shallow-merges other into c: the emit flag is overwritten and the
// validator maps are merged key-wise, with other's entries winning.
func (c Config) merge(other Config) Config {
	merged := Config{
		EmitOnStateSet: other.EmitOnStateSet,
		Validators:     make(map[string]Validator, len(c.Validators)+len(other.Validators)),
	}
	for key, v := range c.Validators {
		merged.Validators[key] = v
	}
	for key, v := range other.Validators {
		merged.Validators[key] = v
	}
	return merged
}
