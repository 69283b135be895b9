// Package passwords issues and verifies user credentials. Two issuance
// strategies exist: a human-readable word-based password for onboarding
// in training/demo environments, and a mixed-class random password.
// Storage is always a bcrypt hash; the cleartext is handed to the caller
// exactly once, at issuance.
package passwords

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// Strategy selects how a batch of credentials is generated.
type Strategy string

const (
	StrategySimple Strategy = "simple"
	StrategySecure Strategy = "secure"
)

// SecureLength is the default length for GenerateSecure.
const SecureLength = 12

// Wordlists for GenerateSimple. These passwords are optimized for
// reading over a shoulder in a classroom, not for entropy. This is NOT
// production-grade credential generation.
var (
	adjectives = []string{
		"happy", "brave", "calm", "eager", "fancy", "gentle",
		"jolly", "kind", "lively", "merry", "proud", "witty",
	}
	nouns = []string{
		"tiger", "river", "maple", "comet", "falcon", "harbor",
		"meadow", "pebble", "summit", "willow", "zephyr", "lantern",
	}
)

const (
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*-_=+"
)

// GenerateSimple returns adjective + noun + a 3-digit number, e.g.
// "bravewillow427". See the package comment for the entropy caveat.
func GenerateSimple() string {
	adj := adjectives[randInt(len(adjectives))]
	noun := nouns[randInt(len(nouns))]
	return fmt.Sprintf("%s%s%03d", adj, noun, randInt(1000))
}

// GenerateSecure returns a random password of the given length with at
// least one lowercase, one uppercase, one digit, and one symbol. The
// guaranteed characters are shuffled into random positions. Lengths
// below 4 are raised to 4 so every class fits.
func GenerateSecure(length int) string {
	if length < 4 {
		length = 4
	}
	union := lowerChars + upperChars + digitChars + symbolChars

	buf := make([]byte, 0, length)
	buf = append(buf,
		lowerChars[randInt(len(lowerChars))],
		upperChars[randInt(len(upperChars))],
		digitChars[randInt(len(digitChars))],
		symbolChars[randInt(len(symbolChars))],
	)
	for len(buf) < length {
		buf = append(buf, union[randInt(len(union))])
	}

	// Fisher-Yates so the guaranteed classes are not positionally
	// predictable.
	for i := len(buf) - 1; i > 0; i-- {
		j := randInt(i + 1)
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// Generate issues a credential using the given strategy. Unknown
// strategies fall back to secure.
func Generate(s Strategy) string {
	if s == StrategySimple {
		return GenerateSimple()
	}
	return GenerateSecure(SecureLength)
}

// Hash returns the bcrypt hash of a cleartext password.
func Hash(cleartext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(cleartext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify reports whether cleartext matches the stored hash. bcrypt's
// comparison is constant-time over the derived key.
func Verify(hash, cleartext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(cleartext)) == nil
}

// randInt returns a uniformly random int in [0, n) from crypto/rand.
func randInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails if the OS entropy source is broken;
		// there is no sensible recovery for credential generation.
		panic(fmt.Sprintf("passwords: random source failed: %v", err))
	}
	return int(v.Int64())
}
