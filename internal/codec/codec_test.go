package codec_test

import (
	"bytes"
	"errors"
	"testing"

	"secretto/internal/codec"
	"secretto/internal/domain"
	"secretto/internal/vault"
)

func makePair(t *testing.T) domain.KeyBundle {
	t.Helper()
	kb, err := vault.Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return kb
}

func TestText_RoundTrip_BothDirections(t *testing.T) {
	alice := makePair(t)
	bob := makePair(t)
	plain := []byte("the package arrives at midnight")

	ct, nonce, err := codec.EncryptText(plain, alice.Private, bob.Public)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	// Bob is the recipient: he verifies against the sender's key.
	got, err := codec.DecryptText(ct, nonce, alice.Public, bob.Private)
	if err != nil {
		t.Fatalf("decrypt as recipient: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Fatal("plaintext mismatch for recipient")
	}

	// Alice reads her own message back: she verifies against the
	// recipient's key.
	got, err = codec.DecryptText(ct, nonce, bob.Public, alice.Private)
	if err != nil {
		t.Fatalf("decrypt as sender: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Fatal("plaintext mismatch for sender")
	}
}

func TestText_WrongCounterpart_Fails(t *testing.T) {
	alice := makePair(t)
	bob := makePair(t)
	eve := makePair(t)

	ct, nonce, err := codec.EncryptText([]byte("x"), alice.Private, bob.Public)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := codec.DecryptText(ct, nonce, eve.Public, bob.Private); !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("want ErrAuthenticationFailed, got %v", err)
	}
	if _, err := codec.DecryptText(ct, nonce, alice.Public, eve.Private); !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("want ErrAuthenticationFailed, got %v", err)
	}
}

func TestText_NonceUniqueness(t *testing.T) {
	alice := makePair(t)
	bob := makePair(t)

	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		_, nonce, err := codec.EncryptText([]byte("m"), alice.Private, bob.Public)
		if err != nil {
			t.Fatalf("encrypt %d: %v", i, err)
		}
		if _, dup := seen[string(nonce)]; dup {
			t.Fatalf("nonce reused after %d encryptions", i)
		}
		seen[string(nonce)] = struct{}{}
	}
}

func TestText_TamperDetection(t *testing.T) {
	alice := makePair(t)
	bob := makePair(t)

	ct, nonce, err := codec.EncryptText([]byte("untouched"), alice.Private, bob.Public)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	for i := range ct {
		mangled := append([]byte(nil), ct...)
		mangled[i] ^= 0x01
		if _, err := codec.DecryptText(mangled, nonce, alice.Public, bob.Private); !errors.Is(err, domain.ErrAuthenticationFailed) {
			t.Fatalf("ciphertext byte %d: want ErrAuthenticationFailed, got %v", i, err)
		}
	}
	for i := range nonce {
		mangled := append([]byte(nil), nonce...)
		mangled[i] ^= 0x01
		if _, err := codec.DecryptText(ct, mangled, alice.Public, bob.Private); !errors.Is(err, domain.ErrAuthenticationFailed) {
			t.Fatalf("nonce byte %d: want ErrAuthenticationFailed, got %v", i, err)
		}
	}
}

func TestText_ZeroKey_Invalid(t *testing.T) {
	alice := makePair(t)
	var zero domain.PublicKey

	if _, _, err := codec.EncryptText([]byte("x"), alice.Private, zero); !errors.Is(err, domain.ErrInvalidKey) {
		t.Fatalf("want ErrInvalidKey, got %v", err)
	}
	if _, err := codec.DecryptText([]byte("x"), make([]byte, 24), zero, alice.Private); !errors.Is(err, domain.ErrInvalidKey) {
		t.Fatalf("want ErrInvalidKey, got %v", err)
	}
}

func TestFile_RoundTrip(t *testing.T) {
	alice := makePair(t)
	bob := makePair(t)
	blob := bytes.Repeat([]byte{0xde, 0xad, 0xbe, 0xef}, 4096)

	fc, err := codec.EncryptFile(blob, alice.Private, bob.Public)
	if err != nil {
		t.Fatalf("encrypt file: %v", err)
	}
	if bytes.Contains(fc.Encrypted, blob[:16]) {
		t.Fatal("encrypted blob leaks plaintext")
	}

	got, err := codec.DecryptFile(fc.Encrypted, fc.WrappedKey, fc.KeyNonce, alice.Public, bob.Private)
	if err != nil {
		t.Fatalf("decrypt file: %v", err)
	}
	if !bytes.Equal(got, blob) {
		t.Fatal("file bytes mismatch after round trip")
	}
}

func TestFile_WrongRecipient_FailsBeforeBlob(t *testing.T) {
	alice := makePair(t)
	bob := makePair(t)
	eve := makePair(t)

	fc, err := codec.EncryptFile([]byte("attachment"), alice.Private, bob.Public)
	if err != nil {
		t.Fatalf("encrypt file: %v", err)
	}

	// Wrong counterpart key: the key envelope must refuse to open, so no
	// blob bytes are ever trusted. Hand DecryptFile a garbage blob to
	// prove the envelope check comes first.
	garbage := []byte("not the real blob")
	if _, err := codec.DecryptFile(garbage, fc.WrappedKey, fc.KeyNonce, alice.Public, eve.Private); !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("want ErrAuthenticationFailed, got %v", err)
	}
}

func TestFile_TamperedBlob_Fails(t *testing.T) {
	alice := makePair(t)
	bob := makePair(t)

	fc, err := codec.EncryptFile([]byte("attachment"), alice.Private, bob.Public)
	if err != nil {
		t.Fatalf("encrypt file: %v", err)
	}
	fc.Encrypted[0] ^= 0x01
	if _, err := codec.DecryptFile(fc.Encrypted, fc.WrappedKey, fc.KeyNonce, alice.Public, bob.Private); !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("want ErrAuthenticationFailed, got %v", err)
	}
}
