package transfer_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"secretto/internal/crypto"
	"secretto/internal/domain"
	"secretto/internal/services/message"
	"secretto/internal/services/transfer"
	"secretto/internal/vault"
)

type fakeDirectory struct {
	keys map[domain.UserID]string
}

func (d *fakeDirectory) FetchKey(_ context.Context, user domain.UserID) (string, bool, error) {
	k, ok := d.keys[user]
	return k, ok, nil
}

type fakeBlobs struct {
	data map[string][]byte
	n    int
}

func (b *fakeBlobs) UploadFile(_ context.Context, data []byte) (string, error) {
	b.n++
	id := fmt.Sprintf("blob-%d", b.n)
	b.data[id] = append([]byte(nil), data...)
	return id, nil
}

func (b *fakeBlobs) DownloadFile(_ context.Context, id string) ([]byte, error) {
	data, ok := b.data[id]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return data, nil
}

type captureSender struct {
	sessionID string
	sender    domain.UserID
	content   domain.Content
	nonce     string
}

func (c *captureSender) SendMessage(sessionID string, sender domain.UserID, content domain.Content, nonce string) error {
	c.sessionID = sessionID
	c.sender = sender
	c.content = content
	c.nonce = nonce
	return nil
}

func unlockedVault(t *testing.T) (*vault.Vault, domain.PublicKey) {
	t.Helper()
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
	if err := v.Unlock(bundle, "pw"); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	return v, kb.Public
}

func TestFileSendAndFetch(t *testing.T) {
	ctx := context.Background()
	aliceVault, alicePub := unlockedVault(t)
	bobVault, bobPub := unlockedVault(t)
	dir := &fakeDirectory{keys: map[domain.UserID]string{
		"alice": crypto.B64(alicePub.Slice()),
		"bob":   crypto.B64(bobPub.Slice()),
	}}
	blobs := &fakeBlobs{data: make(map[string][]byte)}
	sess := domain.Session{ID: "s1", Participants: [2]domain.UserID{"alice", "bob"}}

	original := bytes.Repeat([]byte("quarterly report "), 64)
	aliceXfer := transfer.New(aliceVault, message.New(aliceVault, dir), blobs)
	out := &captureSender{}
	if err := aliceXfer.Send(ctx, out, sess, "alice", "report.pdf", original); err != nil {
		t.Fatalf("send: %v", err)
	}
	if out.content.Kind != domain.FileContent || out.content.File == nil {
		t.Fatalf("expected file content: %+v", out.content)
	}
	if out.content.File.FileName != "report.pdf" {
		t.Fatalf("file name mismatch: %q", out.content.File.FileName)
	}

	// The blob store only ever holds ciphertext.
	stored := blobs.data[out.content.File.FileID]
	if len(stored) == 0 || bytes.Contains(stored, []byte("quarterly report")) {
		t.Fatal("blob store must hold ciphertext only")
	}

	msg := domain.Message{ID: "m1", Sender: "alice", Content: out.content}
	bobXfer := transfer.New(bobVault, message.New(bobVault, dir), blobs)
	data, name, err := bobXfer.Fetch(ctx, &sess, "bob", msg)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if name != "report.pdf" || !bytes.Equal(data, original) {
		t.Fatalf("fetched attachment mismatch: name=%q len=%d", name, len(data))
	}

	// The sender can recover their own attachment too.
	data, _, err = aliceXfer.Fetch(ctx, &sess, "alice", msg)
	if err != nil || !bytes.Equal(data, original) {
		t.Fatalf("sender fetch: err=%v", err)
	}
}

func TestFetchRejectsTextMessage(t *testing.T) {
	v, _ := unlockedVault(t)
	svc := transfer.New(v, nil, nil)
	sess := domain.Session{ID: "s1", Participants: [2]domain.UserID{"alice", "bob"}}
	msg := domain.Message{Content: domain.Content{Kind: domain.TextContent, Body: "x"}}
	if _, _, err := svc.Fetch(context.Background(), &sess, "bob", msg); err == nil {
		t.Fatal("expected error for non-file message")
	}
}

func TestFetchMissingBlob(t *testing.T) {
	ctx := context.Background()
	aliceVault, alicePub := unlockedVault(t)
	bobVault, bobPub := unlockedVault(t)
	dir := &fakeDirectory{keys: map[domain.UserID]string{
		"alice": crypto.B64(alicePub.Slice()),
		"bob":   crypto.B64(bobPub.Slice()),
	}}
	blobs := &fakeBlobs{data: make(map[string][]byte)}
	sess := domain.Session{ID: "s1", Participants: [2]domain.UserID{"alice", "bob"}}

	out := &captureSender{}
	aliceXfer := transfer.New(aliceVault, message.New(aliceVault, dir), blobs)
	if err := aliceXfer.Send(ctx, out, sess, "alice", "a.bin", []byte("data")); err != nil {
		t.Fatalf("send: %v", err)
	}
	delete(blobs.data, out.content.File.FileID)

	msg := domain.Message{Sender: "alice", Content: out.content}
	bobXfer := transfer.New(bobVault, message.New(bobVault, dir), blobs)
	if _, _, err := bobXfer.Fetch(ctx, &sess, "bob", msg); err == nil {
		t.Fatal("expected error when the blob has expired")
	}
}
