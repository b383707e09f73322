package validation

import "testing"

func TestParseOrderNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   int
		wantOK bool
	}{
		{
			name:   "regular number",
			input:  "37596",
			want:   37596,
			wantOK: true,
		},
		{
			name:   "surrounding spaces",
			input:  " 42 ",
			want:   42,
			wantOK: true,
		},
		{
			name:   "zero",
			input:  "0",
			wantOK: false,
		},
		{
			name:   "negative",
			input:  "-5",
			wantOK: false,
		},
		{
			name:   "contains letters",
			input:  "12a4",
			wantOK: false,
		},
		{
			name:   "empty string",
			input:  "",
			wantOK: false,
		},
		{
			name:   "overflow",
			input:  "99999999999999999999999",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOrderNumber(tt.input)
			if (err == nil) != tt.wantOK {
				t.Fatalf("ParseOrderNumber(%q) error = %v, wantOK %v", tt.input, err, tt.wantOK)
			}
			if got != tt.want {
				t.Fatalf("ParseOrderNumber(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidIngredientID(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		valid bool
	}{
		{name: "catalog id", id: "643d69a5c3f7b9001cfa093c", valid: true},
		{name: "upper case", id: "643D69A5C3F7B9001CFA093C", valid: true},
		{name: "too short", id: "643d69a5c3f7", valid: false},
		{name: "not hex", id: "643d69a5c3f7b9001cfa093z", valid: false},
		{name: "empty", id: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidIngredientID(tt.id); got != tt.valid {
				t.Fatalf("IsValidIngredientID(%q) = %v, want %v", tt.id, got, tt.valid)
			}
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{email: "test@mail.ru", valid: true},
		{email: "user.name+tag@example.com", valid: true},
		{email: "plainaddress", valid: false},
		{email: "Name <test@mail.ru>", valid: false},
		{email: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.valid {
				t.Fatalf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.valid)
			}
		})
	}
}
