// Package jwt emite y valida los tokens de acceso a la API.
// El tenant viaja en el token: todas las operaciones e-Fatura se aíslan por él.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingTenant el token no identifica un tenant.
var ErrMissingTenant = errors.New("jwt: tenant_id requerido")

// Principal identidad autenticada: usuario, tenant y rol.
type Principal struct {
	UserID   string
	TenantID string
	Role     string
}

// Claims el usuario va en Subject; tenant y rol como claims propios.
type Claims struct {
	jwt.RegisteredClaims
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"` // "admin" | "operador" | "consulta"
}

// Generate firma un token HS256 para p con vigencia ttl.
func Generate(secret, issuer string, p Principal, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt: secret vacío")
	}
	if p.TenantID == "" {
		return "", ErrMissingTenant
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TenantID: p.TenantID,
		Role:     p.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse valida firma, expiración y, si issuer no es vacío, el emisor.
func Parse(secret, issuer, tokenString string) (Principal, error) {
	if secret == "" {
		return Principal{}, errors.New("jwt: secret vacío")
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return Principal{}, err
	}
	if !token.Valid {
		return Principal{}, errors.New("jwt: claims inválidos")
	}
	if claims.TenantID == "" {
		return Principal{}, ErrMissingTenant
	}
	return Principal{UserID: claims.Subject, TenantID: claims.TenantID, Role: claims.Role}, nil
}
