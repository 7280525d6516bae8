package cryptography

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test data - using a known private key for consistent testing
const testPrivateKey = "1234567890abcdef1234567890abcdef1234567890abcdef1234567890abcdef"

var testHash = crypto.Keccak256Hash([]byte("3500.12"))

func newTestSigner(t *testing.T) *ECDSASigner {
	t.Helper()
	signer, err := NewECDSASignerFromHex(testPrivateKey)
	require.NoError(t, err)
	return signer
}

func TestNewECDSASigner_DerivesAddress(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	signer, err := NewECDSASigner(crypto.FromECDSA(key))
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), signer.Address())
}

func TestNewECDSASignerFromHex_PrefixOptional(t *testing.T) {
	plain := newTestSigner(t)
	prefixed, err := NewECDSASignerFromHex("0x" + testPrivateKey)
	require.NoError(t, err)
	assert.Equal(t, plain.Address(), prefixed.Address())
}

func TestNewECDSASigner_InvalidKey(t *testing.T) {
	tests := []struct {
		name string
		key  []byte
	}{
		{"empty key", nil},
		{"too short", []byte{0x01, 0x02}},
		{"too long", bytes.Repeat([]byte{0x01}, 33)},
		{"zero scalar", make([]byte, 32)},
		{"above curve order", bytes.Repeat([]byte{0xff}, 32)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signer, err := NewECDSASigner(tt.key)
			assert.Nil(t, signer)
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestNewECDSASignerFromHex_InvalidKey(t *testing.T) {
	for _, key := range []string{"", "invalid-hex", "123456", strings.Repeat("ab", 33)} {
		_, err := NewECDSASignerFromHex(key)
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestSignHash_Format(t *testing.T) {
	signer := newTestSigner(t)

	signature, err := signer.SignHash(context.Background(), testHash)
	require.NoError(t, err)
	require.Len(t, signature, SignatureLength)
	assert.Contains(t, []byte{27, 28}, signature[64])

	formatted := FormatSignature(signature)
	assert.True(t, strings.HasPrefix(formatted, "0x"))
	assert.Len(t, formatted, 132)
}

func TestSignHash_Deterministic(t *testing.T) {
	signer := newTestSigner(t)

	first, err := signer.SignHash(context.Background(), testHash)
	require.NoError(t, err)
	second, err := signer.SignHash(context.Background(), testHash)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSignHash_CancelledContext(t *testing.T) {
	signer := newTestSigner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	signature, err := signer.SignHash(ctx, testHash)
	assert.Nil(t, signature)
	assert.ErrorIs(t, err, ErrSigningFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSignHash_DeadlineExceeded(t *testing.T) {
	signer := newTestSigner(t)
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := signer.SignHash(ctx, testHash)
	assert.ErrorIs(t, err, ErrSigningFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestVerifyHashSignature(t *testing.T) {
	signer := newTestSigner(t)
	signature, err := signer.SignHash(context.Background(), testHash)
	require.NoError(t, err)

	t.Run("verifies against own address", func(t *testing.T) {
		ok, err := VerifyHashSignature(testHash, signature, signer.Address())
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("does not verify against other addresses", func(t *testing.T) {
		other, err := crypto.GenerateKey()
		require.NoError(t, err)

		ok, err := VerifyHashSignature(testHash, signature, crypto.PubkeyToAddress(other.PublicKey))
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = VerifyHashSignature(testHash, signature, common.Address{})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("does not verify a different hash", func(t *testing.T) {
		ok, err := VerifyHashSignature(crypto.Keccak256Hash([]byte("3500.13")), signature, signer.Address())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("accepts raw recovery id", func(t *testing.T) {
		raw := make([]byte, len(signature))
		copy(raw, signature)
		raw[64] -= RecoveryIDOffset

		ok, err := VerifyHashSignature(testHash, raw, signer.Address())
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		before := append([]byte(nil), signature...)
		_, _ = VerifyHashSignature(testHash, signature, signer.Address())
		assert.Equal(t, before, signature)
	})

	t.Run("rejects bad length", func(t *testing.T) {
		_, err := VerifyHashSignature(testHash, signature[:64], signer.Address())
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})
}
