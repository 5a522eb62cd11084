package services

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strconv"

	"github.com/ShujaShah/starte/domain"
)

const (
	minActivationCode = 1000
	maxActivationCode = 9999
)

// CodeGeneratorImpl implements domain.CodeGenerator with a CSPRNG
type CodeGeneratorImpl struct {
	reader io.Reader
}

// NewCodeGenerator returns a generator of 4-digit activation codes
func NewCodeGenerator() domain.CodeGenerator {
	return &CodeGeneratorImpl{reader: rand.Reader}
}

// Generate implements domain.CodeGenerator. Codes are uniform in [1000, 9999].
func (g *CodeGeneratorImpl) Generate() (string, error) {
	n, err := rand.Int(g.reader, big.NewInt(maxActivationCode-minActivationCode+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate activation code: %w", err)
	}
	return strconv.FormatInt(n.Int64()+minActivationCode, 10), nil
}
