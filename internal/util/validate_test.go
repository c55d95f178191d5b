package util

import "testing"

func objectSchema(required any) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":    map[string]any{"type": "string"},
			"count": map[string]any{"type": "integer"},
			"ratio": map[string]any{"type": "number"},
		},
		"required": required,
	}
}

func TestValidateArguments_Required(t *testing.T) {
	schema := objectSchema([]string{"id"})

	if err := ValidateArguments(map[string]any{"id": "x"}, schema); err != nil {
		t.Fatalf("expected pass, got %v", err)
	}
	err := ValidateArguments(map[string]any{}, schema)
	if err == nil {
		t.Fatal("expected missing required field error")
	}
	ve, ok := err.(*ValidationError)
	if !ok || ve.Field != "id" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateArguments_RequiredAsAnySlice(t *testing.T) {
	// Schemas round-tripped through JSON carry required as []any.
	schema := objectSchema([]any{"id"})
	if err := ValidateArguments(map[string]any{}, schema); err == nil {
		t.Fatal("expected missing required field error")
	}
}

func TestValidateArguments_Types(t *testing.T) {
	schema := objectSchema(nil)

	tests := []struct {
		name string
		args map[string]any
		ok   bool
	}{
		{"string ok", map[string]any{"id": "x"}, true},
		{"string mismatch", map[string]any{"id": 42}, false},
		{"integer as float64 whole", map[string]any{"count": float64(3)}, true},
		{"integer as float64 fractional", map[string]any{"count": 3.5}, false},
		{"number from int", map[string]any{"ratio": 2}, true},
		{"nil passes", map[string]any{"id": nil}, true},
		{"undeclared field passes", map[string]any{"extra": struct{}{}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateArguments(tt.args, schema)
			if (err == nil) != tt.ok {
				t.Fatalf("args %v: got err %v, want ok=%v", tt.args, err, tt.ok)
			}
		})
	}
}
