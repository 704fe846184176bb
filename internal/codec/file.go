package codec

import (
	"crypto/rand"
	"encoding/json"

	"golang.org/x/crypto/nacl/secretbox"

	"secretto/internal/crypto"
	"secretto/internal/domain"
)

// fileKeyEnvelope is the boxed payload carrying the one-time file key.
type fileKeyEnvelope struct {
	Key   string `json:"key"`
	Nonce string `json:"nonce"`
}

// FileCipher is the result of EncryptFile: the sealed payload plus the
// boxed key envelope that accompanies it as message content.
type FileCipher struct {
	Encrypted  []byte
	WrappedKey []byte
	KeyNonce   []byte
}

// EncryptFile seals data under a one-time symmetric key and wraps that key
// to the recipient via EncryptText.
func EncryptFile(data []byte, senderPriv domain.PrivateKey, recipientPub domain.PublicKey) (FileCipher, error) {
	var fileKey [crypto.KeyBytes]byte
	if _, err := rand.Read(fileKey[:]); err != nil {
		return FileCipher{}, err
	}
	defer crypto.Wipe(fileKey[:])

	fileNonce, err := crypto.NewNonce()
	if err != nil {
		return FileCipher{}, err
	}
	sealed := secretbox.Seal(nil, data, &fileNonce, &fileKey)

	envelope, err := json.Marshal(fileKeyEnvelope{
		Key:   crypto.B64(fileKey[:]),
		Nonce: crypto.B64(fileNonce[:]),
	})
	if err != nil {
		return FileCipher{}, err
	}
	wrappedKey, keyNonce, err := EncryptText(envelope, senderPriv, recipientPub)
	if err != nil {
		return FileCipher{}, err
	}
	return FileCipher{Encrypted: sealed, WrappedKey: wrappedKey, KeyNonce: keyNonce}, nil
}

// DecryptFile opens the key envelope first, then the payload. The envelope
// authenticates before any blob byte is trusted; every failure maps to
// domain.ErrAuthenticationFailed.
func DecryptFile(encrypted, wrappedKey, keyNonce []byte, counterpartPub domain.PublicKey, ownPriv domain.PrivateKey) ([]byte, error) {
	raw, err := DecryptText(wrappedKey, keyNonce, counterpartPub, ownPriv)
	if err != nil {
		return nil, err
	}
	var env fileKeyEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, domain.ErrAuthenticationFailed
	}
	keyBytes, err := crypto.FromB64(env.Key)
	if err != nil || len(keyBytes) != crypto.KeyBytes {
		return nil, domain.ErrAuthenticationFailed
	}
	nonceBytes, err := crypto.FromB64(env.Nonce)
	if err != nil || len(nonceBytes) != crypto.BoxNonceBytes {
		return nil, domain.ErrAuthenticationFailed
	}

	var fileKey [crypto.KeyBytes]byte
	copy(fileKey[:], keyBytes)
	defer crypto.Wipe(fileKey[:])
	var fileNonce [crypto.BoxNonceBytes]byte
	copy(fileNonce[:], nonceBytes)

	data, ok := secretbox.Open(nil, encrypted, &fileNonce, &fileKey)
	if !ok {
		return nil, domain.ErrAuthenticationFailed
	}
	return data, nil
}
