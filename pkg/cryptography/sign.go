package cryptography

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	SignatureLength = crypto.SignatureLength
	// Ethereum-style recovery id offset applied to v
	RecoveryIDOffset = 27
)

var (
	ErrInvalidKey       = errors.New("invalid private key")
	ErrSigningFailed    = errors.New("signing failed")
	ErrInvalidSignature = errors.New("invalid signature")
)

// Signer signs 32-byte message hashes on behalf of a single performer.
type Signer interface {
	Address() common.Address
	SignHash(ctx context.Context, hash common.Hash) ([]byte, error)
}

type ECDSASigner struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

var _ Signer = (*ECDSASigner)(nil)

// NewECDSASigner builds a signer from a raw 32-byte secp256k1 scalar.
func NewECDSASigner(privateKey []byte) (*ECDSASigner, error) {
	if len(privateKey) != 32 {
		return nil, fmt.Errorf("%w: expected 32 bytes, got %d", ErrInvalidKey, len(privateKey))
	}
	key, err := crypto.ToECDSA(privateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return newSigner(key), nil
}

// NewECDSASignerFromHex accepts the key with or without a 0x prefix.
func NewECDSASignerFromHex(privateKeyHex string) (*ECDSASigner, error) {
	if has0xPrefix(privateKeyHex) {
		privateKeyHex = privateKeyHex[2:]
	}
	key, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return newSigner(key), nil
}

func newSigner(key *ecdsa.PrivateKey) *ECDSASigner {
	return &ECDSASigner{
		privateKey: key,
		address:    crypto.PubkeyToAddress(key.PublicKey),
	}
}

func (s *ECDSASigner) Address() common.Address {
	return s.address
}

// SignHash signs the hash as is, without the personal-message prefix.
// The returned signature is r || s || v with v in {27, 28}.
func (s *ECDSASigner) SignHash(ctx context.Context, hash common.Hash) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}

	signature, err := crypto.Sign(hash.Bytes(), s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}
	signature[crypto.RecoveryIDOffset] += RecoveryIDOffset

	return signature, nil
}

// VerifyHashSignature reports whether signature over hash was produced by the
// key behind address. v may be either 0/1 or 27/28.
func VerifyHashSignature(hash common.Hash, signature []byte, address common.Address) (bool, error) {
	recovered, err := RecoverAddress(hash, signature)
	if err != nil {
		return false, err
	}
	return recovered == address, nil
}

func RecoverAddress(hash common.Hash, signature []byte) (common.Address, error) {
	if len(signature) != SignatureLength {
		return common.Address{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignature, SignatureLength, len(signature))
	}

	sig := make([]byte, SignatureLength)
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= RecoveryIDOffset {
		sig[crypto.RecoveryIDOffset] -= RecoveryIDOffset
	}

	pubKeyRaw, err := crypto.Ecrecover(hash.Bytes(), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: failed to recover public key: %v", ErrInvalidSignature, err)
	}
	pubKey, err := crypto.UnmarshalPubkey(pubKeyRaw)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: failed to unmarshal public key: %v", ErrInvalidSignature, err)
	}
	return crypto.PubkeyToAddress(*pubKey), nil
}

// FormatSignature renders a signature as 0x-prefixed lowercase hex.
func FormatSignature(signature []byte) string {
	return hexutil.Encode(signature)
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
