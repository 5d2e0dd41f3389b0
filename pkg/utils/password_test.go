package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Aa@1234")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "Aa@1234" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !CheckPassword(hash, "Aa@1234") {
		t.Error("CheckPassword() rejected the original password")
	}
	if CheckPassword(hash, "Aa@1235") {
		t.Error("CheckPassword() accepted a wrong password")
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid minimal", "Aa@1234", false},
		{"valid longer", "CorrectHorse7!", false},
		{"too short", "Aa@123", true},
		{"no uppercase", "aa@12345", true},
		{"no lowercase", "AA@12345", true},
		{"no number", "Aa@bcdef", true},
		{"no special", "Aa123456", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}
