package values

import (
	"encoding/json"
	"fmt"
)

// Identity is the signer identity (SOFI) bound into the signed message.
// The exact bytes supplied are signed; no trimming or normalisation is applied.
type Identity struct {
	value string
}

// NewIdentity creates a validated identity.
func NewIdentity(s string) (Identity, error) {
	if s == "" {
		return Identity{}, fmt.Errorf("identity cannot be empty")
	}
	return Identity{value: s}, nil
}

// MustNewIdentity creates an identity and panics on error.
// Use only in tests or with known-valid input.
func MustNewIdentity(s string) Identity {
	id, err := NewIdentity(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the identity string.
func (i Identity) String() string {
	return i.value
}

// IsEmpty returns true if this is a zero-value Identity.
func (i Identity) IsEmpty() bool {
	return i.value == ""
}

// IsNumeric reports whether the identity consists only of ASCII digits.
func (i Identity) IsNumeric() bool {
	if i.value == "" {
		return false
	}
	for _, r := range i.value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Equals checks equality with another Identity.
func (i Identity) Equals(other Identity) bool {
	return i.value == other.value
}

// MarshalJSON implements json.Marshaler.
func (i Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.value)
}

// UnmarshalJSON implements json.Unmarshaler with validation.
func (i *Identity) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := NewIdentity(s)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
