package validation

import (
	"errors"
	"net/url"
	"regexp"
	"testing"
)

var testSchema = Schema{
	{Name: "name", Rules: []Rule{
		Required("name is required"),
		MinLength(2, "name too short"),
		MaxLength(5, "name too long"),
	}},
	{Name: "gender", Rules: []Rule{
		OneOf("bad gender", "male", "female"),
	}},
	{Name: "picture", Rules: []Rule{
		URL("bad url"),
	}},
	{Name: "id", Rules: []Rule{
		Required("id is required"),
		Matches(regexp.MustCompile(`^\d+$`), "id must be numeric"),
	}},
}

func TestSchemaValidate(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		want   map[string]string // field -> rule
	}{
		{
			name:   "all valid",
			values: map[string]string{"name": "Ana", "gender": "Female", "picture": "/img/a.png", "id": "7"},
			want:   nil,
		},
		{
			name:   "optional fields may be empty",
			values: map[string]string{"name": "Ana", "id": "7"},
			want:   nil,
		},
		{
			name:   "whitespace counts as empty",
			values: map[string]string{"name": "   ", "id": "7"},
			want:   map[string]string{"name": "required"},
		},
		{
			name:   "first failing rule only",
			values: map[string]string{"name": "A", "id": "x"},
			want:   map[string]string{"name": "minlength", "id": "matches"},
		},
		{
			name:   "max length counts runes",
			values: map[string]string{"name": "Мария", "id": "1"},
			want:   nil,
		},
		{
			name:   "bad optional values",
			values: map[string]string{"name": "Ana", "gender": "other", "picture": "ftp://x/y", "id": "1"},
			want:   map[string]string{"gender": "oneof", "picture": "url"},
		},
		{
			name:   "absolute http url accepted",
			values: map[string]string{"name": "Ana", "picture": "https://lms.example.com/img/a.png", "id": "1"},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := testSchema.Validate(tt.values)
			if len(tt.want) == 0 {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}

			var errs Errors
			if !errors.As(err, &errs) {
				t.Fatalf("Validate() error = %v, want Errors", err)
			}
			if len(errs) != len(tt.want) {
				t.Fatalf("got %d errors (%v), want %d", len(errs), errs, len(tt.want))
			}
			for field, rule := range tt.want {
				fe, ok := errs.For(field)
				if !ok {
					t.Errorf("no error for field %q", field)
					continue
				}
				if fe.Rule != rule {
					t.Errorf("field %q failed rule %q, want %q", field, fe.Rule, rule)
				}
			}
		})
	}
}

func TestErrorsKeepSchemaOrder(t *testing.T) {
	err := testSchema.Validate(map[string]string{"gender": "x"})

	var errs Errors
	if !errors.As(err, &errs) {
		t.Fatalf("Validate() error = %v", err)
	}
	got := []string{}
	for _, fe := range errs {
		got = append(got, fe.Field)
	}
	want := []string{"name", "gender", "id"}
	if len(got) != len(want) {
		t.Fatalf("fields = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("fields = %v, want %v", got, want)
			break
		}
	}
	if msg := errs.Error(); msg != "name: name is required; gender: bad gender; id: id is required" {
		t.Errorf("Error() = %q", msg)
	}
}

func TestValidateForm(t *testing.T) {
	form := url.Values{}
	form.Set("name", "Ivo")
	form.Set("id", "12")
	if err := testSchema.ValidateForm(form); err != nil {
		t.Errorf("ValidateForm() error = %v", err)
	}
}
