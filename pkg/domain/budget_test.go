package domain

import "testing"

func TestValidPeriod(t *testing.T) {
	tests := []struct {
		period string
		want   bool
	}{
		{"2025-12", true},
		{"2025-01", true},
		{"1999-06", true},
		{"2025-13", false},
		{"2025-00", false},
		{"2025-1", false},
		{"25-12", false},
		{"2025/12", false},
		{"", false},
		{"2025-12-01", false},
	}
	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			if got := ValidPeriod(tt.period); got != tt.want {
				t.Errorf("ValidPeriod(%q) = %v, want %v", tt.period, got, tt.want)
			}
		})
	}
}

func TestValidateCurrency(t *testing.T) {
	if err := ValidateCurrency("TRY"); err != nil {
		t.Errorf("ValidateCurrency(TRY) = %v, want nil", err)
	}
	if err := ValidateCurrency("TL"); err == nil {
		t.Error("ValidateCurrency(TL) = nil, want error")
	}
	if err := ValidateCurrency("LIRA"); err == nil {
		t.Error("ValidateCurrency(LIRA) = nil, want error")
	}
}

func TestValidateAmount(t *testing.T) {
	if err := ValidateAmount(0); err != nil {
		t.Errorf("ValidateAmount(0) = %v, want nil", err)
	}
	if err := ValidateAmount(1500.50); err != nil {
		t.Errorf("ValidateAmount(1500.50) = %v, want nil", err)
	}
	if err := ValidateAmount(-1); err == nil {
		t.Error("ValidateAmount(-1) = nil, want error")
	}
}

func TestCredentialsValid(t *testing.T) {
	if !(Credentials{Token: "t", Username: "u"}).Valid() {
		t.Error("both fields set should be valid")
	}
	if (Credentials{Token: "t"}).Valid() {
		t.Error("token without username should be invalid")
	}
	if (Credentials{Username: "u"}).Valid() {
		t.Error("username without token should be invalid")
	}
	if (Credentials{}).Valid() {
		t.Error("empty credentials should be invalid")
	}
}
