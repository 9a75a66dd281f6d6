package naming

import "testing"

func TestValidateComponentName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"web", false},
		{"api-v2", false},
		{"", true},
		{"my web", true},
		{"web\t", true},
		{"Web", true},
		{"-web", true},
		{"a23456789012345678901234567890123456789012345678901", false},
		{"a234567890123456789012345678901234567890123456789012", false},
		{"a2345678901234567890123456789012345678901234567890123", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateComponentName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateComponentName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestValidateApplicationName(t *testing.T) {
	if err := ValidateApplicationName("shop"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateApplicationName("shop_front"); err == nil {
		t.Error("expected error for underscore")
	}
}

func TestComponentSelector(t *testing.T) {
	if got := ComponentSelector("web"); got != "app=web" {
		t.Errorf("ComponentSelector = %q", got)
	}
	if got := Namespace("shop"); got != "shop" {
		t.Errorf("Namespace = %q", got)
	}
}
