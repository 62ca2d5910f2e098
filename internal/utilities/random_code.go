package utilities

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// codeAlphabet leaves out 0, O, 1 and I so codes survive being read aloud
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// RegistrationCode returns a random code of groups*4 characters in dash separated groups of four,
// e.g. "K7QM-2XWD-P9TA" for 3 groups
func RegistrationCode(groups int) (string, error) {
	if groups < 1 {
		groups = 1
	}

	size := big.NewInt(int64(len(codeAlphabet)))
	parts := make([]string, groups)
	for g := range parts {
		var b strings.Builder
		for i := 0; i < 4; i++ {
			n, err := rand.Int(rand.Reader, size)
			if err != nil {
				return "", err
			}
			b.WriteByte(codeAlphabet[n.Int64()])
		}
		parts[g] = b.String()
	}
	return strings.Join(parts, "-"), nil
}
