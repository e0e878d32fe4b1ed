package internal

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
)

var ErrNotFound = errors.New("not found")

// DefaultPasswordHasher hashes plain with bcrypt at the default cost.
func DefaultPasswordHasher(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DefaultPasswordVerifier reports whether plain matches hash.
func DefaultPasswordVerifier(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func Env(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("missing env: %s", key)
	}
	return v
}

// RandomHex returns n random bytes hex encoded.
func RandomHex(n int) string {
	if n <= 0 {
		n = 16
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

// RandomDigits returns a uniformly distributed numeric code of the given
// length.
func RandomDigits(n int) string {
	if n <= 0 {
		n = 6
	}
	code, err := randomDigits(rand.Reader, n)
	if err != nil {
		panic(err)
	}
	return code
}

// randomDigits reads bytes from r and keeps those below 250 so every digit
// is equally likely.
func randomDigits(r io.Reader, n int) (string, error) {
	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= 250 {
				continue
			}
			out = append(out, '0'+b%10)
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
