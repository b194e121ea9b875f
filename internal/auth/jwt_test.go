package auth

import "testing"

func TestDeviceTokenRoundTrip(t *testing.T) {
	token, err := GenerateDeviceToken("device-001")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}
	if claims.DeviceID != "device-001" {
		t.Errorf("Expected device-001, got %s", claims.DeviceID)
	}
	if claims.Role != "device" {
		t.Errorf("Expected role device, got %s", claims.Role)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Error("Expected error for malformed token")
	}
}
