package device

import (
	"errors"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		port    string
		wantID  string
		wantErr bool
	}{
		{"by id", "ufxii", "ufxii", false},
		{"by exact name", "Fireface UFX II", "ufxii", false},
		{"by port name with suffix", "Fireface UFX II (23732123)", "ufxii", false},
		{"name continued without separator", "Fireface UFX III", "", true},
		{"unknown device", "Babyface Pro", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Lookup(tt.port)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Lookup(%q) error = %v, wantErr %v", tt.port, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedDevice) {
					t.Errorf("Lookup(%q) error = %v, want ErrUnsupportedDevice", tt.port, err)
				}
				return
			}
			if d.ID != tt.wantID {
				t.Errorf("Lookup(%q).ID = %q, want %q", tt.port, d.ID, tt.wantID)
			}
		})
	}
}

func TestUFXIIDescriptor(t *testing.T) {
	if got := len(UFXII.Inputs); got != 24 {
		t.Errorf("UFXII has %d inputs, want 24", got)
	}
	if got := len(UFXII.Outputs); got != 16 {
		t.Errorf("UFXII has %d outputs, want 16", got)
	}
	if !UFXII.Has(FlagDURec) {
		t.Error("UFXII should advertise DURec")
	}
	if !UFXII.Has(FlagFXLevels) {
		t.Error("UFXII should advertise FX level meters")
	}
	if !UFXII.Inputs[0].Has(Input48V) {
		t.Error("input 1 should have phantom power")
	}
	if UFXII.Inputs[12].Has(InputGain) {
		t.Error("SPDIF L should not have a gain stage")
	}
}
