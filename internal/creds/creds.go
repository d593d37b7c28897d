package creds

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/playvault/storefront/internal/domain/model"
)

const (
	passwordAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	passwordLength   = 8
	accountIDSpace   = 10000
)

// Generator produces synthetic game-account credentials. The output shape is
// fixed by already-delivered accounts (ACC + 4 digits, 8-char lowercase
// alphanumeric password); the randomness source is crypto/rand.
type Generator struct{}

// NewGenerator constructs a Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns a fresh credential pair.
func (g *Generator) Generate() (model.Credentials, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(accountIDSpace))
	if err != nil {
		return model.Credentials{}, fmt.Errorf("generate account id: %w", err)
	}

	buf := make([]byte, passwordLength)
	alphabetSize := big.NewInt(int64(len(passwordAlphabet)))
	for i := range buf {
		idx, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return model.Credentials{}, fmt.Errorf("generate password: %w", err)
		}
		buf[i] = passwordAlphabet[idx.Int64()]
	}

	return model.Credentials{
		AccountID: fmt.Sprintf("ACC%04d", n.Int64()),
		Password:  string(buf),
	}, nil
}
