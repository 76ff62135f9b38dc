package recovery

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var codeSpace = big.NewInt(1_000_000)

// GenerateCode returns a uniformly random code in 000000-999999.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("generate recovery code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
