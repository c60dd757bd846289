package validator

import (
	"testing"
	"time"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "test@com", "test@domain", "plainaddress", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{"0190f5a2-7c3e-7b4c-9a1d-2f3e4d5c6b7a", "00000000-0000-0000-0000-000000000000"}
	invalid := []string{"", "abc", "emp-1", "0190f5a2-7c3e-7b4c-9a1d", "0190f5a2-7c3e-7b4c-9a1d-2f3e4d5c6b7z"}
	for _, s := range valid {
		if !IsValidUUID(s) {
			t.Errorf("IsValidUUID(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidUUID(s) {
			t.Errorf("IsValidUUID(%q) = true, want false", s)
		}
	}
}

func TestIsValidTime(t *testing.T) {
	cases := []struct {
		input string
		want  time.Duration
		ok    bool
	}{
		{"09:00:00", 9 * time.Hour, true},
		{"17:30", 17*time.Hour + 30*time.Minute, true},
		{"00:00:01", time.Second, true},
		{"24:00:00", 0, false},
		{"9am", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := IsValidTime(c.input)
		if ok != c.ok || got != c.want {
			t.Errorf("IsValidTime(%q) = (%v, %v), want (%v, %v)", c.input, got, ok, c.want, c.ok)
		}
	}
}

func TestStruct(t *testing.T) {
	type payload struct {
		Name   string `json:"name" validate:"required,max=5"`
		Status string `json:"status" validate:"oneof=A B"`
		Hidden string `json:"-"`
	}

	if errs := Struct(payload{Name: "abc", Status: "A"}); errs != nil {
		t.Fatalf("Struct(valid) = %v, want nil", errs)
	}

	errs := Struct(payload{Name: "abcdefg", Status: "C"})
	got := errs.ToMap()
	if got["name"] != "name must be at most 5 characters" {
		t.Errorf("name error = %q", got["name"])
	}
	if got["status"] != "status must be one of: A, B" {
		t.Errorf("status error = %q", got["status"])
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "a", Message: "bad"},
		{Field: "b", Message: "worse"},
	}
	if got := errs.Error(); got != "a: bad; b: worse" {
		t.Errorf("Error() = %q", got)
	}
}
