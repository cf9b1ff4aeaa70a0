package csv2fhir

import "testing"

func TestIncreaseLastNumber(t *testing.T) {
	tests := []struct {
		pid   string
		value int
		want  string
	}{
		{"P-000012", 5, "P-000017"},
		{"P-000099", 1, "P-000100"},
		{"P-999", 1, "P-1000"},
		{"12", 3, "15"},
		{"UKL-0007-X", 2, "UKL-0009-X"},
		{"no-digits", 5, "no-digits"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		if got := IncreaseLastNumber(tt.pid, tt.value); got != tt.want {
			t.Errorf("IncreaseLastNumber(%q, %d) = %q; want %q", tt.pid, tt.value, got, tt.want)
		}
	}
}

func TestFullPID(t *testing.T) {
	o := DefaultOptions()
	o.PIDLastNumberIncrease = 5

	if got := o.FullPID("P-000012"); got != "P-000017" {
		t.Errorf("FullPID(P-000012) = %q; want P-000017", got)
	}

	o = DefaultOptions()
	o.PIDPrefix = "UKL-"
	o.PIDSuffix = "-X"
	if got := o.FullPID("P_1"); got != "UKL-P-1-X" {
		t.Errorf("FullPID(P_1) = %q; want UKL-P-1-X", got)
	}
}

func TestFullPID_ZeroOffsetUnchanged(t *testing.T) {
	o := DefaultOptions()
	if got := o.FullPID("P-000012"); got != "P-000012" {
		t.Errorf("FullPID with defaults = %q; want P-000012", got)
	}
}
