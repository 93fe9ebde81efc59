package values

import "strconv"

// MaskNonce is the per-signature cosmetic nonce. It carries no security
// meaning and never influences the canonical pattern.
type MaskNonce uint32

// Uint32 returns the nonce as an unsigned integer.
func (n MaskNonce) Uint32() uint32 {
	return uint32(n)
}

// String returns the decimal form.
func (n MaskNonce) String() string {
	return strconv.FormatUint(uint64(n), 10)
}

// ParseMaskNonce parses a decimal nonce.
func ParseMaskNonce(s string) (MaskNonce, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return MaskNonce(v), nil
}
