package assignment

import "strings"

// Key is a normalized strategy identifier.
type Key string

const (
	KeyRoundRobin Key = "round_robin"
	KeyLeastOpen  Key = "least_open"
	KeyManual     Key = "manual"
)

var keyAliases = map[string]Key{
	"roundrobin": KeyRoundRobin,
	"leastopen":  KeyLeastOpen,
}

// NormalizeKey lowercases and trims raw, maps '-' to '_' and folds the known
// aliases. A blank value normalizes to round_robin.
func NormalizeKey(raw string) Key {
	k := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_")
	if k == "" {
		return KeyRoundRobin
	}
	if alias, ok := keyAliases[k]; ok {
		return alias
	}
	return Key(k)
}

// Kind is the closed set of policies the engine knows how to evaluate.
// Tenant-custom keys resolve to one of the built-in kinds through the
// registry; anything else is KindUnrecognized.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindRoundRobin
	KindLeastOpen
	KindManual
)

func (k Kind) String() string {
	switch k {
	case KindRoundRobin:
		return string(KeyRoundRobin)
	case KindLeastOpen:
		return string(KeyLeastOpen)
	case KindManual:
		return string(KeyManual)
	default:
		return "unrecognized"
	}
}

// KindOf maps a built-in key to its Kind.
func KindOf(k Key) Kind {
	switch k {
	case KeyRoundRobin:
		return KindRoundRobin
	case KeyLeastOpen:
		return KindLeastOpen
	case KeyManual:
		return KindManual
	default:
		return KindUnrecognized
	}
}
