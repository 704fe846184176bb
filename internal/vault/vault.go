package vault

import (
	"crypto/rand"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"secretto/internal/crypto"
	"secretto/internal/domain"
)

// Argon2id parameters for the key-encryption key. Derivation is
// intentionally slow and memory-hard.
const (
	argonTime    = 1
	argonMemory  = 1 << 16
	argonThreads = 8
)

// deriveKey derives the key-encryption key from the user secret and salt.
func deriveKey(secret string, salt []byte) []byte {
	return argon2.IDKey([]byte(secret), salt, argonTime, argonMemory, argonThreads, crypto.KeyBytes)
}

// Generate returns a fresh keypair. Nothing is persisted; wrapping and
// storage are the caller's job.
func Generate() (domain.KeyBundle, error) {
	pub, priv, err := crypto.GenerateKeyPair()
	if err != nil {
		return domain.KeyBundle{}, err
	}
	return domain.KeyBundle{Public: pub, Private: priv}, nil
}

// Wrap seals priv under a key derived from secret. The salt and nonce are
// generated fresh per call.
func Wrap(priv domain.PrivateKey, secret string) (wrapped, nonce, salt []byte, err error) {
	salt, err = crypto.NewSalt()
	if err != nil {
		return nil, nil, nil, err
	}
	kek := deriveKey(secret, salt)
	defer crypto.Wipe(kek)

	aead, err := chacha20poly1305.New(kek)
	if err != nil {
		return nil, nil, nil, err
	}
	nonce = make([]byte, chacha20poly1305.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, nil, err
	}
	wrapped = aead.Seal(nil, nonce, priv.Slice(), nil)
	return wrapped, nonce, salt, nil
}

// Unlock re-derives the key from secret and salt and opens the wrap.
// Every failure mode maps to domain.ErrInvalidSecretOrCorruptData.
func Unlock(wrapped, nonce, salt []byte, secret string) (domain.PrivateKey, error) {
	var priv domain.PrivateKey
	if len(salt) != crypto.SaltBytes || len(nonce) != chacha20poly1305.NonceSize {
		return priv, domain.ErrInvalidSecretOrCorruptData
	}
	kek := deriveKey(secret, salt)
	defer crypto.Wipe(kek)

	aead, err := chacha20poly1305.New(kek)
	if err != nil {
		return priv, domain.ErrInvalidSecretOrCorruptData
	}
	pt, err := aead.Open(nil, nonce, wrapped, nil)
	if err != nil || len(pt) != crypto.KeyBytes {
		return priv, domain.ErrInvalidSecretOrCorruptData
	}
	copy(priv[:], pt)
	crypto.Wipe(pt)
	return priv, nil
}

// Vault holds the unlocked keypair for the lifetime of the process.
// It starts locked; Unlock transitions it to unlocked, Lock back again.
type Vault struct {
	mu       sync.Mutex
	unlocked bool
	pub      domain.PublicKey
	priv     domain.PrivateKey
}

// New returns a locked vault.
func New() *Vault { return &Vault{} }

// Unlock decodes the wrapped bundle and loads the private key into memory.
func (v *Vault) Unlock(bundle domain.WrappedKeyBundle, secret string) error {
	pub, err := crypto.ParsePublicKey(bundle.PublicKey)
	if err != nil {
		return domain.ErrInvalidSecretOrCorruptData
	}
	wrapped, err := crypto.FromB64(bundle.WrappedPrivateKey)
	if err != nil {
		return domain.ErrInvalidSecretOrCorruptData
	}
	nonce, err := crypto.FromB64(bundle.WrapNonce)
	if err != nil {
		return domain.ErrInvalidSecretOrCorruptData
	}
	salt, err := crypto.FromB64(bundle.KDFSalt)
	if err != nil {
		return domain.ErrInvalidSecretOrCorruptData
	}

	priv, err := Unlock(wrapped, nonce, salt, secret)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.pub = pub
	v.priv = priv
	v.unlocked = true
	return nil
}

// Keys returns the unlocked keypair. ok is false while the vault is locked.
func (v *Vault) Keys() (pub domain.PublicKey, priv domain.PrivateKey, ok bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.unlocked {
		return pub, priv, false
	}
	return v.pub, v.priv, true
}

// Unlocked reports the vault state.
func (v *Vault) Unlocked() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.unlocked
}

// Lock wipes the in-memory private key and returns the vault to the locked
// state.
func (v *Vault) Lock() {
	v.mu.Lock()
	defer v.mu.Unlock()
	crypto.Wipe(v.priv[:])
	v.priv = domain.PrivateKey{}
	v.pub = domain.PublicKey{}
	v.unlocked = false
}
