package utils

import "testing"

func TestIsEmail(t *testing.T) {
	valid := []string{"john@example.com", "a.b+c@sub.domain.co"}
	invalid := []string{"", "john@", "john example.com", "john@nodot"}

	for _, s := range valid {
		if !IsEmail(s) {
			t.Fatalf("IsEmail(%q) = false", s)
		}
	}
	for _, s := range invalid {
		if IsEmail(s) {
			t.Fatalf("IsEmail(%q) = true", s)
		}
	}
}

func TestIsStrictEmail(t *testing.T) {
	for _, s := range []string{"john@example.com", "j.doe@pay.example.co"} {
		if !IsStrictEmail(s) {
			t.Fatalf("IsStrictEmail(%q) = false", s)
		}
	}
	for _, s := range []string{"", "john@", "john example.com", "jo hn@example.com"} {
		if IsStrictEmail(s) {
			t.Fatalf("IsStrictEmail(%q) = true", s)
		}
	}
}

func TestNormalizeSpace(t *testing.T) {
	if got := NormalizeSpace("  John   Doe "); got != "John Doe" {
		t.Fatalf("got %q", got)
	}
}
