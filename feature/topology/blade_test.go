package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBladeHost(t *testing.T) {
	tests := []struct {
		name        string
		host        string
		wantChassis string
		wantBay     string
		wantOK      bool
	}{
		{"simple", "bc01b3", "bc01", "3", true},
		{"leading zero bay", "bc01b03", "bc01", "3", true},
		{"uppercase separator", "C7000B12", "C7000", "12", true},
		{"last separator wins", "ab1b2", "ab1", "2", true},
		{"hyphenated chassis", "rack-1b4", "rack-1", "4", true},
		{"no separator", "srv01", "", "", false},
		{"no bay digits", "blade", "", "", false},
		{"empty chassis", "b3", "", "", false},
		{"empty", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chassis, bay, ok := ParseBladeHost(tt.host)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantChassis, chassis)
			assert.Equal(t, tt.wantBay, bay)
		})
	}
}
