package password

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "lotolink/pkg/domain-errors"
)

func TestHashFormat(t *testing.T) {
	h := New(WithIterations(1000))
	hash, err := h.Hash("correct horse")
	require.NoError(t, err)

	salt, key, ok := strings.Cut(hash, ":")
	require.True(t, ok)
	assert.Len(t, salt, SaltBytes*2)
	assert.Len(t, key, KeyBytes*2)
}

func TestVerify(t *testing.T) {
	h := New(WithIterations(1000))
	hash, err := h.Hash("correct horse")
	require.NoError(t, err)

	require.NoError(t, h.Verify("correct horse", hash))

	err = h.Verify("wrong horse", hash)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	err = h.Verify("correct horse", "not-a-hash")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

func TestSaltsDiffer(t *testing.T) {
	h := New(WithIterations(1000))
	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDeterministicWithFixedSalt(t *testing.T) {
	salt := bytes.Repeat([]byte{0x01}, SaltBytes)
	h1 := New(WithIterations(1000), WithRandReader(bytes.NewReader(salt)))
	h2 := New(WithIterations(1000), WithRandReader(bytes.NewReader(salt)))
	a, err := h1.Hash("secret")
	require.NoError(t, err)
	b, err := h2.Hash("secret")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, strings.Repeat("01", SaltBytes)+":"))
}

func TestShortRandReaderFails(t *testing.T) {
	h := New(WithRandReader(bytes.NewReader([]byte{1, 2, 3})))
	_, err := h.Hash("secret")
	require.Error(t, err)
}
