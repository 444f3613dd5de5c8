package token

import (
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenInvalid   = errors.New("token invalid")
)

// Claims bind a user identity to one rotation of that user's key word. There
// is no expiry claim: a token stays valid exactly until the key word rotates.
type Claims struct {
	UserID   uint   `json:"user_id"`
	Nickname string `json:"nick_name"`
	jwt.RegisteredClaims
}

// Issue signs a token for the user with their current key word. The payload
// is not confidential; the signature is the trust boundary.
func Issue(userID uint, nickname, keyWord string) (string, error) {
	claims := Claims{UserID: userID, Nickname: nickname}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(keyWord))
}

// Verify checks the token signature against keyWord and returns the claims.
// Structurally broken input yields ErrTokenMalformed, everything else that
// fails verification yields ErrTokenInvalid.
func Verify(tokenStr, keyWord string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(keyWord), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, ErrTokenMalformed
		}
		return nil, ErrTokenInvalid
	}
	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

const keyWordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// NewKeyWord generates a random alphanumeric secret of length n. Persisting
// it replaces the previous key word and invalidates every token signed with
// it, which is the logout-everywhere mechanism.
func NewKeyWord(n int) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(keyWordAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = keyWordAlphabet[idx.Int64()]
	}
	return string(out), nil
}
