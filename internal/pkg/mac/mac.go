package mac

import "strings"

// Invalid is returned for inputs that do not contain exactly 12 hex digits.
const Invalid = "invalid"

// Normalize canonicalizes a hardware address to AA:BB:CC:DD:EE:FF. All
// non-hex characters are stripped first, so "aa-bb-cc-dd-ee-ff",
// "aabb.ccdd.eeff" and the canonical form itself all normalize to the same
// value. Idempotent on its own output.
func Normalize(raw string) string {
	var hexOnly strings.Builder
	for _, r := range strings.ToUpper(raw) {
		if (r >= '0' && r <= '9') || (r >= 'A' && r <= 'F') {
			hexOnly.WriteRune(r)
		}
	}

	if hexOnly.Len() != 12 {
		return Invalid
	}

	s := hexOnly.String()
	parts := make([]string, 0, 6)
	for i := 0; i < 12; i += 2 {
		parts = append(parts, s[i:i+2])
	}
	return strings.Join(parts, ":")
}

// IsValid reports whether raw normalizes to a canonical address.
func IsValid(raw string) bool {
	return Normalize(raw) != Invalid
}
