package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"author@example.org",
		"first.last+tag@sub.example.co",
	}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("%q should be valid", email)
		}
	}

	invalid := []string{
		"",
		"author",
		"author@",
		"@example.org",
		"author@example",
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("%q should be invalid", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ok, _ := ValidatePassword("longenough"); !ok {
		t.Error("10-character password should pass")
	}
	if ok, msg := ValidatePassword("short"); ok || msg == "" {
		t.Error("short password should fail with a message")
	}
}

func TestValidateORCID(t *testing.T) {
	valid := []string{
		"0000-0002-1825-0097",
		"0000-0002-1694-233X",
	}
	for _, orcid := range valid {
		if !ValidateORCID(orcid) {
			t.Errorf("%q should be valid", orcid)
		}
	}

	invalid := []string{
		"",
		"0000-0002-1825-009",
		"0000000218250097",
		"0000-0002-1825-009x",
	}
	for _, orcid := range invalid {
		if ValidateORCID(orcid) {
			t.Errorf("%q should be invalid", orcid)
		}
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  title \x00here  "); got != "title here" {
		t.Errorf("got %q", got)
	}
}
