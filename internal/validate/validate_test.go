package validate

import (
	"errors"
	"testing"

	"github.com/kompox/shipyard/domain/model"
)

type input struct {
	Name  string `json:"name" validate:"required,dns1123"`
	Label string `json:"label" validate:"omitempty,nowhitespace"`
	Type  string `json:"type" validate:"oneof=webapp worker cron"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name      string
		in        input
		wantField string
	}{
		{"ok", input{Name: "web", Type: "webapp"}, ""},
		{"missing name", input{Type: "webapp"}, "name"},
		{"uppercase name", input{Name: "Web", Type: "webapp"}, "name"},
		{"whitespace label", input{Name: "web", Label: "a b", Type: "cron"}, "label"},
		{"bad type", input{Name: "web", Type: "daemon"}, "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *model.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("field = %q, want %q", ve.Field, tt.wantField)
			}
			if !errors.Is(err, model.ErrValidation) {
				t.Errorf("expected ErrValidation")
			}
		})
	}
}
