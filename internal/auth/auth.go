package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	magicLinkTTL = 15 * time.Minute
	sessionTTL   = 30 * 24 * time.Hour

	tokenTypeMagicLink = "magic-link"
)

// Claims son los claims firmados en los tokens de acceso.
type Claims struct {
	Email string `json:"email"`
	Type  string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// Service emite y verifica los tokens de magic link y de sesión.
type Service struct {
	secret        []byte
	allowedEmails map[string]struct{}
}

func NewService(secret string, allowedEmails []string) *Service {
	allowed := make(map[string]struct{}, len(allowedEmails))
	for _, email := range allowedEmails {
		allowed[strings.ToLower(email)] = struct{}{}
	}

	return &Service{
		secret:        []byte(secret),
		allowedEmails: allowed,
	}
}

// IsEmailAllowed indica si el email está en la lista de accesos permitidos.
func (s *Service) IsEmailAllowed(email string) bool {
	_, ok := s.allowedEmails[strings.ToLower(email)]
	return ok
}

// GenerateMagicLink emite el token de un solo uso que viaja en el enlace de
// conexión. Vence a los 15 minutos.
func (s *Service) GenerateMagicLink(email string) (string, error) {
	return s.sign(email, tokenTypeMagicLink, magicLinkTTL)
}

// GenerateAuthToken emite el token de sesión de larga vida (30 días).
func (s *Service) GenerateAuthToken(email string) (string, error) {
	return s.sign(email, "", sessionTTL)
}

func (s *Service) sign(email, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: email,
		Type:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("error al firmar el token: %w", err)
	}
	return signed, nil
}

// VerifyAuthToken valida un token de sesión. Devuelve nil si el token es
// inválido, está vencido o es un token de magic link.
func (s *Service) VerifyAuthToken(tokenString string) *Claims {
	claims := s.verify(tokenString)
	if claims == nil || claims.Type != "" {
		return nil
	}
	return claims
}

// VerifyMagicLink valida un token de magic link. Devuelve nil si el token es
// inválido, está vencido o no es de tipo magic-link.
func (s *Service) VerifyMagicLink(tokenString string) *Claims {
	claims := s.verify(tokenString)
	if claims == nil || claims.Type != tokenTypeMagicLink {
		return nil
	}
	return claims
}

func (s *Service) verify(tokenString string) *Claims {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil
	}
	return claims
}
