// Package keystate provides a keyed observable store for component-based UIs.
//
// A Registry holds independently named Instances. Each Instance maps string
// keys to arbitrary values, carries per-key validators, and runs a
// synchronous event bus that notifies listeners when keys change.
//
// # Core Types
//
// Registry is a namespace of named instances:
//
//	reg := keystate.NewRegistry()
//	reg.Register(map[string]keystate.Entry{
//	    "counter": keystate.Values(map[string]any{"count": 0}),
//	})
//	counter := reg.Use("counter")
//
// Instance is one isolated store of keyed values:
//
//	counter.On(keystate.Key("count"), func(args ...any) {
//	    prev, next := args[0], args[1]
//	    fmt.Println(prev, "->", next)
//	})
//	counter.Store(keystate.Values(map[string]any{"count": 1}))
//	value := counter.Read("count")
//
// Computed properties route reads and writes through user accessors:
//
//	counter.Define(keystate.Values(map[string]any{
//	    "double": keystate.Computed{
//	        State: 0,
//	        Get: func(in *keystate.Instance, key string, raw any) any {
//	            return raw.(int) * 2
//	        },
//	    },
//	}))
//
// # Channels
//
// Event names are typed Channels rather than bare strings, so the reserved
// configuration channel can never collide with a user key named "config":
//
//	keystate.Key("count")        // fires on Store
//	keystate.KeyUpdate("count")  // fires on Update
//	keystate.ChannelConfig       // fires on SetConfig/UpdateConfig
//
// # Error Policy
//
// The store favors availability over strictness. Misuse (duplicate
// registration, unknown instance lookup, malformed entries) degrades to a
// no-op and a warning on the registry's logger. Registries built with
// WithStrict panic with the coded error instead, which is useful in tests.
//
// # Thread Safety
//
// All operations are safe for interleaved use from multiple goroutines.
// Listener callbacks run without any internal lock held, so a listener may
// re-enter the store (including removing itself) during dispatch.
package keystate
