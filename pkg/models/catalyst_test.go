package models

import "testing"

func TestCatalyst_Status(t *testing.T) {
	tests := []struct {
		name      string
		remaining Decimal
		want      CatalystStatus
	}{
		{"plenty left", "5.2", CatalystAvailable},
		{"just above threshold", "0.00011", CatalystAvailable},
		{"exactly at threshold", "0.0001", CatalystDepleted},
		{"below threshold", "0.00005", CatalystDepleted},
		{"zero", "0", CatalystDepleted},
		{"negative", "-0.5", CatalystDepleted},
		{"empty", "", CatalystDepleted},
		{"unparsable", "??", CatalystDepleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Catalyst{RemainingAmount: tt.remaining}
			if got := c.Status(); got != tt.want {
				t.Errorf("Status() with remaining %q = %v, want %v", tt.remaining, got, tt.want)
			}
		})
	}
}

func TestCatalyst_UsagePercent(t *testing.T) {
	tests := []struct {
		name      string
		yield     Decimal
		remaining Decimal
		want      int
	}{
		{"half left", "10.0", "5.0", 50},
		{"untouched", "10.0", "10.0", 100},
		{"rounds nearest", "3", "2", 67},
		{"rounds down", "3", "1", 33},
		// A residue the balance cannot weigh reads as fully used even
		// though remaining/yield is technically above zero.
		{"sub-threshold residue", "10.0", "0.00005", 0},
		{"zero yield", "0", "0", 0},
		{"missing yield", "", "5.0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Catalyst{YieldAmount: tt.yield, RemainingAmount: tt.remaining}
			if got := c.UsagePercent(); got != tt.want {
				t.Errorf("UsagePercent() with yield %q remaining %q = %d, want %d",
					tt.yield, tt.remaining, got, tt.want)
			}
		})
	}
}
