package services

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestCodeGenerator_Range(t *testing.T) {
	gen := NewCodeGenerator()
	seen := make(map[string]struct{})

	for i := 0; i < 2000; i++ {
		code, err := gen.Generate()
		require.NoError(t, err)
		require.Len(t, code, 4)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, minActivationCode)
		assert.LessOrEqual(t, n, maxActivationCode)
		seen[code] = struct{}{}
	}

	assert.Greater(t, len(seen), 500, "codes should not repeat much")
}

func TestCodeGenerator_ReaderFailure(t *testing.T) {
	gen := &CodeGeneratorImpl{reader: failingReader{}}

	code, err := gen.Generate()
	assert.Error(t, err)
	assert.Empty(t, code)
}
