package token

import (
	"fmt"

	"portfolio-gateway/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// Decode extracts identity claims from a bearer token without verifying the
// signature. The backend stays the sole authority for authorization; this
// decode only drives UI state, so a tampered token gains nothing here.
//
// Decode is total: any input string yields either an Identity or a
// *domain.DecodeError, never a panic.
func Decode(raw string) (domain.Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return domain.Identity{}, &domain.DecodeError{Kind: domain.DecodeInvalidFormat, Reason: err.Error()}
	}

	subject, _ := claims["sub"].(string)
	userID := stringClaim(claims["userId"])
	if subject == "" || userID == "" {
		return domain.Identity{}, &domain.DecodeError{Kind: domain.DecodeMalformedClaims, Reason: "missing sub or userId claim"}
	}

	name, _ := claims["name"].(string)
	subdomain, _ := claims["subdomain"].(string)

	return domain.Identity{
		SubjectEmail: subject,
		UserID:       userID,
		DisplayName:  name,
		Subdomain:    subdomain,
	}, nil
}

// stringClaim tolerates user ids serialized as JSON numbers.
func stringClaim(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%.0f", t)
	default:
		return ""
	}
}
