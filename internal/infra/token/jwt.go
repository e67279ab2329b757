package token

import (
	"errors"
	"strconv"
	"time"

	"plantstore/internal/domain/model"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims はcookieに入れるJWTの中身。tvはユーザーのTokenVersion。
type Claims struct {
	Role         string `json:"role"`
	TokenVersion int    `json:"tv"`
	jwt.RegisteredClaims
}

// Subject は検証済みトークンから取り出した値
type Subject struct {
	UserID       int64
	Role         model.Role
	TokenVersion int
}

type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue はHS256で署名したトークンと有効期限を返す
func (i *JWTIssuer) Issue(userID int64, role model.Role, tokenVersion int, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.ttl)

	claims := Claims{
		Role:         string(role),
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse は署名・期限・中身を検証する。どれか一つでもだめならErrInvalidToken。
func (i *JWTIssuer) Parse(raw string) (Subject, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid {
		return Subject{}, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Subject{}, ErrInvalidToken
	}
	role, ok := model.ParseRole(claims.Role)
	if !ok {
		return Subject{}, ErrInvalidToken
	}
	if claims.TokenVersion < 0 {
		return Subject{}, ErrInvalidToken
	}

	return Subject{UserID: userID, Role: role, TokenVersion: claims.TokenVersion}, nil
}
