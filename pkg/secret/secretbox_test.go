package secret_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/efatura-api/pkg/secret"
)

func newSealer(t *testing.T) *secret.Sealer {
	t.Helper()
	key, err := secret.GenerateKey()
	require.NoError(t, err)
	s, err := secret.NewSealer(key)
	require.NoError(t, err)
	return s
}

func TestSealer_IdaYVuelta(t *testing.T) {
	s := newSealer(t)
	sealed, err := s.Seal("şifre-123")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "şifre")

	plain, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "şifre-123", plain)
}

func TestSealer_NonceDistintoCadaVez(t *testing.T) {
	s := newSealer(t)
	a, err := s.Seal("x")
	require.NoError(t, err)
	b, err := s.Seal("x")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSealer_OtraClaveNoAbre(t *testing.T) {
	sealed, err := newSealer(t).Seal("x")
	require.NoError(t, err)

	_, err = newSealer(t).Open(sealed)
	assert.ErrorIs(t, err, secret.ErrInvalidCiphertext)
}

func TestSealer_EntradaCorrupta(t *testing.T) {
	s := newSealer(t)
	for _, in := range []string{"", "no-base64!", base64.StdEncoding.EncodeToString([]byte("corto"))} {
		_, err := s.Open(in)
		assert.ErrorIs(t, err, secret.ErrInvalidCiphertext, "entrada %q", in)
	}
}

func TestNewSealer_ClaveInvalida(t *testing.T) {
	_, err := secret.NewSealer("no-base64!")
	assert.Error(t, err)
	_, err = secret.NewSealer(base64.StdEncoding.EncodeToString([]byte("16-bytes-de-clav")))
	assert.Error(t, err)
}
