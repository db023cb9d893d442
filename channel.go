package keystate

// channelKind discriminates the event-name variants.
type channelKind uint8

const (
	kindKey channelKind = iota
	kindKeyUpdate
	kindConfig
)

// Channel identifies an event stream on an Instance. Channels are a typed
// variant rather than raw strings: per-key change events, per-key update
// events, and the reserved configuration channel occupy separate spaces, so
// a user key named "config" cannot shadow configuration notifications.
//
// Channel is comparable and usable as a map key.
type Channel struct {
	kind channelKind
	key  string
}

// Key returns the channel that fires when key is written through Store.
// Listeners receive (previousValue, newValue, *Instance).
func Key(key string) Channel {
	return Channel{kind: kindKey, key: key}
}

// KeyUpdate returns the channel that fires when key is written through
// Update. Listeners receive only the new value.
func KeyUpdate(key string) Channel {
	return Channel{kind: kindKeyUpdate, key: key}
}

// ChannelConfig fires when the instance configuration is set or updated.
// Listeners receive (Config, *Instance).
var ChannelConfig = Channel{kind: kindConfig}

// String returns the channel's wire-style name, matching the conventional
// naming of key events ("count"), update events ("count-update"), and the
// configuration channel ("config").
func (c Channel) String() string {
	switch c.kind {
	case kindKeyUpdate:
		return c.key + "-update"
	case kindConfig:
		return "config"
	default:
		return c.key
	}
}
