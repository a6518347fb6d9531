package utils

import (
	"strings"

	"github.com/gosimple/unidecode"
	"golang.org/x/crypto/bcrypt"
)

// AnswerHashCost is tuned for interactive submission latency.
const AnswerHashCost = 10

// NormalizeAnswer folds a submitted answer to its canonical form. The exact
// same normalization must run at clue-creation time and at verification
// time — "Paris", " paris " and "PARÍS" all collapse to "paris".
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(unidecode.Unidecode(s)))
}

// HashAnswer returns the bcrypt digest of the normalized answer. The
// plaintext is never persisted anywhere.
func HashAnswer(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(NormalizeAnswer(plaintext)), AnswerHashCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyAnswer reports whether plaintext matches the stored digest.
// Comparison is constant-time via bcrypt; callers only ever see the bool.
func VerifyAnswer(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(NormalizeAnswer(plaintext))) == nil
}
