package mac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_CommonFormats(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"dashes", "aa-bb-cc-dd-ee-ff", "AA:BB:CC:DD:EE:FF"},
		{"colons", "aa:bb:cc:dd:ee:ff", "AA:BB:CC:DD:EE:FF"},
		{"dots", "aabb.ccdd.eeff", "AA:BB:CC:DD:EE:FF"},
		{"bare", "AABBCCDDEEFF", "AA:BB:CC:DD:EE:FF"},
		{"mixed case", "Aa:bB:cC:Dd:Ee:fF", "AA:BB:CC:DD:EE:FF"},
		{"surrounding junk", "  mac=aa-bb-cc-dd-ee-ff;  ", "AA:BB:CC:DD:EE:FF"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.input))
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"too short", "aa-bb-cc-dd-ee"},
		{"too long", "aa-bb-cc-dd-ee-ff-00"},
		{"non hex", "gg-hh-ii-jj-kk-ll"},
		{"eleven digits", "aabbccddeef"},
		{"thirteen digits", "aabbccddeeff0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, Invalid, Normalize(tc.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"aa-bb-cc-dd-ee-ff", "AABBCCDDEEFF", "00:11:22:33:44:55", "not a mac"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
	}
}
