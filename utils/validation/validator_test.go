package validation

import "testing"

type profileFixture struct {
	Phone string `validate:"required,inphone"`
	DOB   string `validate:"required,isodate"`
}

func TestIndianPhoneRule(t *testing.T) {
	v := NewValidator()

	valid := []string{"+919812345670", "+910000000000"}
	for _, phone := range valid {
		err := v.ValidateStruct(profileFixture{Phone: phone, DOB: "2001-04-15"})
		if err != nil {
			t.Errorf("expected %q to validate, got %v", phone, err)
		}
	}

	invalid := []string{
		"9812345670",     // missing country code
		"+91981234567",   // nine digits
		"+9198123456701", // eleven digits
		"+9198123456ab",  // letters
		"+449812345670",  // wrong country code
	}
	for _, phone := range invalid {
		err := v.ValidateStruct(profileFixture{Phone: phone, DOB: "2001-04-15"})
		if err == nil {
			t.Errorf("expected %q to fail validation", phone)
		}
	}
}

func TestISODateRule(t *testing.T) {
	v := NewValidator()

	valid := []string{"2001-04-15", "1999-12-31"}
	for _, dob := range valid {
		err := v.ValidateStruct(profileFixture{Phone: "+919812345670", DOB: dob})
		if err != nil {
			t.Errorf("expected %q to validate, got %v", dob, err)
		}
	}

	invalid := []string{
		"04/15/01",   // legacy MM/DD/YY form
		"15-04-2001", // day first
		"2001-13-01", // invalid month
		"2001-02-30", // invalid day
		"not-a-date",
	}
	for _, dob := range invalid {
		err := v.ValidateStruct(profileFixture{Phone: "+919812345670", DOB: dob})
		if err == nil {
			t.Errorf("expected %q to fail validation", dob)
		}
	}
}

func TestFormatValidationErrors(t *testing.T) {
	v := NewValidator()

	err := v.ValidateStruct(profileFixture{Phone: "123", DOB: "bad"})
	if err == nil {
		t.Fatal("expected validation errors")
	}

	fields := FormatValidationErrors(err)
	if len(fields) != 2 {
		t.Fatalf("expected 2 field errors, got %d: %v", len(fields), fields)
	}
	if _, ok := fields["phone"]; !ok {
		t.Error("expected a phone field error")
	}
	if _, ok := fields["dob"]; !ok {
		t.Error("expected a dob field error")
	}
}

func TestValidateEmail(t *testing.T) {
	if !ValidateEmail("student@example.com") {
		t.Error("expected valid email to pass")
	}
	if ValidateEmail("not-an-email") {
		t.Error("expected invalid email to fail")
	}
	if ValidateEmail("") {
		t.Error("expected empty email to fail")
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  Asha Verma  "); got != "Asha Verma" {
		t.Errorf("got %q", got)
	}
	if got := SanitizeString("abc\x00def"); got != "abcdef" {
		t.Errorf("got %q", got)
	}
}
