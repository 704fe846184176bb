package keyfile_test

import (
	"testing"

	"secretto/internal/domain"
	"secretto/internal/store/keyfile"
)

func TestSaveLoad(t *testing.T) {
	s := keyfile.New(t.TempDir())

	if _, ok, err := s.Load(); err != nil || ok {
		t.Fatalf("load before save: ok=%v err=%v", ok, err)
	}

	bundle := domain.WrappedKeyBundle{
		PublicKey:         "pub",
		WrappedPrivateKey: "wrapped",
		WrapNonce:         "nonce",
		KDFSalt:           "salt",
	}
	if err := s.Save(bundle); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := s.Load()
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got != bundle {
		t.Fatalf("bundle mismatch: %+v", got)
	}
}
