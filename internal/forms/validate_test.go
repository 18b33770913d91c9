package forms

import "testing"

func fieldSet(errs []FieldError) map[string]string {
	m := make(map[string]string, len(errs))
	for _, e := range errs {
		m[e.Field] = e.Message
	}
	return m
}

func TestValidate_AllValid(t *testing.T) {
	data := map[string]any{
		"name":              "Jo Lee",
		"email":             "jo@example.com",
		"message":           "Interested in joining the competition team this fall",
		"marketing_consent": "yes",
	}
	if errs := Validate(data); len(errs) != 0 {
		t.Fatalf("expected no errors, got %+v", errs)
	}
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	// Empty submission violates all four rules independently.
	errs := Validate(map[string]any{})
	if len(errs) != 4 {
		t.Fatalf("expected 4 errors, got %d: %+v", len(errs), errs)
	}
	fields := fieldSet(errs)
	for _, f := range []string{"name", "email", "message", "marketing_consent"} {
		if _, ok := fields[f]; !ok {
			t.Fatalf("missing error for field %q", f)
		}
	}
}

func TestValidate_FieldRules(t *testing.T) {
	base := func() map[string]any {
		return map[string]any{
			"name":              "Jo Lee",
			"email":             "jo@example.com",
			"message":           "Interested in joining the competition team",
			"marketing_consent": "yes",
		}
	}

	tests := []struct {
		name      string
		mutate    func(map[string]any)
		wantField string
	}{
		{"short name", func(m map[string]any) { m["name"] = " J " }, "name"},
		{"missing name", func(m map[string]any) { delete(m, "name") }, "name"},
		{"email without at", func(m map[string]any) { m["email"] = "jo.example.com" }, "email"},
		{"email without dot in domain", func(m map[string]any) { m["email"] = "jo@example" }, "email"},
		{"email with space", func(m map[string]any) { m["email"] = "jo lee@example.com" }, "email"},
		{"short message", func(m map[string]any) { m["message"] = "hi there" }, "message"},
		{"consent missing", func(m map[string]any) { delete(m, "marketing_consent") }, "marketing_consent"},
		{"consent not literal yes", func(m map[string]any) { m["marketing_consent"] = "Yes" }, "marketing_consent"},
		{"consent true bool", func(m map[string]any) { m["marketing_consent"] = true }, "marketing_consent"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data := base()
			tc.mutate(data)
			errs := Validate(data)
			if len(errs) != 1 {
				t.Fatalf("expected exactly 1 error, got %+v", errs)
			}
			if errs[0].Field != tc.wantField {
				t.Fatalf("expected error on %q, got %q", tc.wantField, errs[0].Field)
			}
			if errs[0].Message == "" {
				t.Fatalf("expected a user-facing message")
			}
		})
	}
}
