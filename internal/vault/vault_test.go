package vault_test

import (
	"errors"
	"testing"

	"secretto/internal/crypto"
	"secretto/internal/domain"
	"secretto/internal/vault"
)

func TestWrapUnlock_RoundTrip(t *testing.T) {
	kb, err := vault.Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	wrapped, nonce, salt, err := vault.Wrap(kb.Private, "correct horse")
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}

	got, err := vault.Unlock(wrapped, nonce, salt, "correct horse")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if got != kb.Private {
		t.Fatal("private key mismatch after unlock")
	}
}

func TestUnlock_WrongSecret_Fails(t *testing.T) {
	kb, err := vault.Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	wrapped, nonce, salt, err := vault.Wrap(kb.Private, "right")
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}

	for i := 0; i < 3; i++ {
		_, err := vault.Unlock(wrapped, nonce, salt, "wrong")
		if !errors.Is(err, domain.ErrInvalidSecretOrCorruptData) {
			t.Fatalf("want ErrInvalidSecretOrCorruptData, got %v", err)
		}
	}
}

func TestUnlock_CorruptWrap_SameError(t *testing.T) {
	kb, err := vault.Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	wrapped, nonce, salt, err := vault.Wrap(kb.Private, "secret")
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}

	// Corrupted ciphertext must fail with the exact same error shape as a
	// wrong secret.
	wrapped[0] ^= 0x01
	_, err = vault.Unlock(wrapped, nonce, salt, "secret")
	if !errors.Is(err, domain.ErrInvalidSecretOrCorruptData) {
		t.Fatalf("want ErrInvalidSecretOrCorruptData, got %v", err)
	}
}

func TestWrap_FreshSaltAndNonce(t *testing.T) {
	kb, err := vault.Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	_, nonce1, salt1, err := vault.Wrap(kb.Private, "s")
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	_, nonce2, salt2, err := vault.Wrap(kb.Private, "s")
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if string(salt1) == string(salt2) {
		t.Fatal("salt reused across wraps")
	}
	if string(nonce1) == string(nonce2) {
		t.Fatal("nonce reused across wraps")
	}
}

func TestVault_StateMachine(t *testing.T) {
	kb, err := vault.Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	wrapped, nonce, salt, err := vault.Wrap(kb.Private, "pw")
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	bundle := domain.WrappedKeyBundle{
		PublicKey:         crypto.B64(kb.Public.Slice()),
		WrappedPrivateKey: crypto.B64(wrapped),
		WrapNonce:         crypto.B64(nonce),
		KDFSalt:           crypto.B64(salt),
	}

	v := vault.New()
	if v.Unlocked() {
		t.Fatal("new vault must start locked")
	}
	if _, _, ok := v.Keys(); ok {
		t.Fatal("locked vault must not expose keys")
	}

	if err := v.Unlock(bundle, "nope"); err == nil {
		t.Fatal("unlock with wrong secret must fail")
	}
	if v.Unlocked() {
		t.Fatal("failed unlock must leave the vault locked")
	}

	if err := v.Unlock(bundle, "pw"); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	pub, priv, ok := v.Keys()
	if !ok || pub != kb.Public || priv != kb.Private {
		t.Fatal("unlocked vault returned wrong keys")
	}

	v.Lock()
	if v.Unlocked() {
		t.Fatal("lock must return the vault to locked")
	}
	if _, _, ok := v.Keys(); ok {
		t.Fatal("locked vault must not expose keys")
	}
}
