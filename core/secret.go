package core

import "log/slog"

// Secret wraps a credential so it cannot leak through fmt, JSON or YAML
// output. Use Expose to read the value when building an auth header.
//
//	key := NewSecret("sk-abc123")
//	fmt.Println(key)   // [REDACTED]
//	key.Expose()       // sk-abc123
type Secret struct {
	value string
}

// NewSecret creates a new Secret from a string value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// String implements fmt.Stringer.
func (s Secret) String() string {
	return "[REDACTED]"
}

// GoString implements fmt.GoStringer.
func (s Secret) GoString() string {
	return "core.Secret{[REDACTED]}"
}

func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"[REDACTED]"`), nil
}

func (s Secret) MarshalText() ([]byte, error) {
	return []byte("[REDACTED]"), nil
}

// LogValue implements slog.LogValuer.
func (s Secret) LogValue() slog.Value {
	return slog.StringValue("[REDACTED]")
}

// Expose returns the actual secret value.
func (s Secret) Expose() string {
	return s.value
}

// IsEmpty returns true if the secret value is empty.
func (s Secret) IsEmpty() bool {
	return s.value == ""
}
