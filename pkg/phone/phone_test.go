package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		region string
		want   string
		ok     bool
	}{
		{"dominican local", "809-234-5678", "", "+18092345678", true},
		{"already e164", "+1 809 234 5678", "DO", "+18092345678", true},
		{"us number", "(201) 555-0123", "US", "+12015550123", true},
		{"garbage kept raw", "  call me  ", "DO", "call me", false},
		{"too short kept raw", "12", "DO", "12", false},
		{"empty", "   ", "DO", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.raw, tt.region)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
