package codec

import (
	"fmt"

	"golang.org/x/crypto/nacl/box"

	"secretto/internal/crypto"
	"secretto/internal/domain"
)

func validKey(k []byte) bool {
	if len(k) != crypto.KeyBytes {
		return false
	}
	for _, b := range k {
		if b != 0 {
			return true
		}
	}
	return false
}

// EncryptText seals plaintext to the recipient with a fresh nonce.
func EncryptText(plaintext []byte, senderPriv domain.PrivateKey, recipientPub domain.PublicKey) (ciphertext, nonce []byte, err error) {
	if !validKey(senderPriv.Slice()) || !validKey(recipientPub.Slice()) {
		return nil, nil, domain.ErrInvalidKey
	}
	n, err := crypto.NewNonce()
	if err != nil {
		return nil, nil, fmt.Errorf("nonce: %w", err)
	}
	priv := [32]byte(senderPriv)
	pub := [32]byte(recipientPub)
	ct := box.Seal(nil, plaintext, &n, &pub, &priv)
	return ct, n[:], nil
}

// DecryptText opens ciphertext using the counterpart's public key and our
// private key. The caller selects the counterpart: the recipient's key for
// messages we sent, the sender's key for messages we received.
func DecryptText(ciphertext, nonce []byte, counterpartPub domain.PublicKey, ownPriv domain.PrivateKey) ([]byte, error) {
	if !validKey(ownPriv.Slice()) || !validKey(counterpartPub.Slice()) {
		return nil, domain.ErrInvalidKey
	}
	if len(nonce) != crypto.BoxNonceBytes {
		return nil, domain.ErrAuthenticationFailed
	}
	var n [crypto.BoxNonceBytes]byte
	copy(n[:], nonce)
	priv := [32]byte(ownPriv)
	pub := [32]byte(counterpartPub)
	pt, ok := box.Open(nil, ciphertext, &n, &pub, &priv)
	if !ok {
		return nil, domain.ErrAuthenticationFailed
	}
	return pt, nil
}
