package tokens

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const refreshType = "refresh"

var ErrWrongTokenType = errors.New("wrong token type")

type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	Type string `json:"typ"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func SignAccess(userID, role string, exp time.Time, secret []byte) (string, error) {
	claims := AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// SignRefresh returns the signed token together with its jti.
func SignRefresh(userID, role string, exp time.Time, secret []byte) (string, string, error) {
	jti := uuid.NewString()
	claims := RefreshClaims{
		Type: refreshType,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

func keyFunc(secret []byte) jwt.Keyfunc {
	return func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	}
}

func AccessClaimsFromToken(tokenStr string, accessSecret []byte) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, keyFunc(accessSecret))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return &claims, nil
}

func RefreshClaimsFromToken(tokenStr string, refreshSecret []byte) (*RefreshClaims, error) {
	var claims RefreshClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, keyFunc(refreshSecret))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Type != refreshType {
		return nil, ErrWrongTokenType
	}
	return &claims, nil
}

// Pair is an access/refresh token couple issued on login or rotation.
type Pair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

// Hash is the storage form of a refresh token.
func Hash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
