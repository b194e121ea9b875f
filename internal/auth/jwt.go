package auth

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DeviceClaims represents the claims in a device token
type DeviceClaims struct {
	DeviceID string `json:"device_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

const deviceTokenTTL = 24 * time.Hour

func signingSecret() []byte {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return []byte(secret)
	}
	// Development fallback only; production deployments set JWT_SECRET.
	return []byte("voicebridge-dev-secret")
}

// GenerateDeviceToken generates a JWT token for device authentication
func GenerateDeviceToken(deviceID string) (string, error) {
	claims := &DeviceClaims{
		DeviceID: deviceID,
		Role:     "device",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(deviceTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingSecret())
}

// ValidateToken validates a JWT token and returns the claims
func ValidateToken(tokenString string) (*DeviceClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &DeviceClaims{}, func(token *jwt.Token) (interface{}, error) {
		return signingSecret(), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*DeviceClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrInvalidKey
}
