package util

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Str0ngPass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "Str0ngPass" {
		t.Fatal("hash must not equal the plaintext")
	}
	if err := CheckPassword(hash, "Str0ngPass"); err != nil {
		t.Errorf("CheckPassword with correct password: %v", err)
	}
	if err := CheckPassword(hash, "WrongPass1"); err == nil {
		t.Error("CheckPassword accepted a wrong password")
	}
}

func TestValidatePasswordStrength(t *testing.T) {
	cases := []struct {
		password string
		want     bool
	}{
		{"Str0ngPass", true},
		{"short1A", false},
		{"alllowercase1", false},
		{"ALLUPPERCASE1", false},
		{"NoDigitsHere", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidatePasswordStrength(tc.password); got != tc.want {
			t.Errorf("ValidatePasswordStrength(%q) = %v, want %v", tc.password, got, tc.want)
		}
	}
}
