package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"secretto/internal/domain"
)

// Store implements domain.SessionStore and domain.KeyDirectory on a
// PostgreSQL database.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const sessionCols = `id, name, participant_a, participant_b,
	COALESCE(password_hash, ''), expires_at, created_at, updated_at`

func scanSession(row interface{ Scan(...any) error }) (domain.Session, error) {
	var s domain.Session
	var a, b string
	var expires sql.NullTime
	err := row.Scan(&s.ID, &s.Name, &a, &b, &s.PasswordHash, &expires, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return s, err
	}
	s.Participants = [2]domain.UserID{domain.UserID(a), domain.UserID(b)}
	if expires.Valid {
		t := expires.Time
		s.ExpiresAt = &t
	}
	return s, nil
}

func (s *Store) loadMessages(ctx context.Context, id string) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sender, kind, body, nonce, file_name, file_id, wrapped_key, key_nonce, ts
		FROM messages WHERE session_id = $1 ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		var kind, fileName, fileID, wrappedKey, keyNonce string
		if err := rows.Scan(&m.ID, &m.Sender, &kind, &m.Content.Body, &m.Nonce,
			&fileName, &fileID, &wrappedKey, &keyNonce, &m.Timestamp); err != nil {
			return nil, err
		}
		m.Content.Kind = domain.ContentKind(kind)
		if m.Content.Kind == domain.FileContent {
			m.Content.Body = ""
			m.Content.File = &domain.FileEnvelope{
				FileName:   fileName,
				FileID:     fileID,
				WrappedKey: wrappedKey,
				KeyNonce:   keyNonce,
			}
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Find loads a session and its full transcript.
func (s *Store) Find(ctx context.Context, id string) (domain.Session, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionCols+` FROM sessions WHERE id = $1`, id)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, err
	}
	sess.Messages, err = s.loadMessages(ctx, id)
	if err != nil {
		return domain.Session{}, false, err
	}
	return sess, true, nil
}

// FindByParticipant returns every session the user takes part in,
// transcripts included.
func (s *Store) FindByParticipant(ctx context.Context, user domain.UserID) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sessionCols+` FROM sessions
		WHERE participant_a = $1 OR participant_b = $1
		ORDER BY updated_at DESC`, user.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Messages, err = s.loadMessages(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// FindExpired returns sessions whose expiry is at or before now. The sweep
// only needs ids and participants, so transcripts are not loaded.
func (s *Store) FindExpired(ctx context.Context, now time.Time) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sessionCols+` FROM sessions
		WHERE expires_at IS NOT NULL AND expires_at <= $1`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// Create inserts a new session row.
func (s *Store) Create(ctx context.Context, sess domain.Session) error {
	var expires any
	if sess.ExpiresAt != nil {
		expires = *sess.ExpiresAt
	}
	var hash any
	if sess.PasswordHash != "" {
		hash = sess.PasswordHash
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, name, participant_a, participant_b, password_hash, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sess.ID, sess.Name,
		sess.Participants[0].String(), sess.Participants[1].String(),
		hash, expires, sess.CreatedAt, sess.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// AppendMessage inserts msg guarded on the session still existing and not
// being expired. ok=false means the session is gone or expired; the insert
// and the guard run in one statement, so a racing delete wins cleanly.
func (s *Store) AppendMessage(ctx context.Context, id string, msg domain.Message) (bool, error) {
	var fileName, fileID, wrappedKey, keyNonce string
	if msg.Content.File != nil {
		fileName = msg.Content.File.FileName
		fileID = msg.Content.File.FileID
		wrappedKey = msg.Content.File.WrappedKey
		keyNonce = msg.Content.File.KeyNonce
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO messages (id, session_id, sender, kind, body, nonce, file_name, file_id, wrapped_key, key_nonce, ts)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		WHERE EXISTS (
			SELECT 1 FROM sessions
			WHERE id = $2 AND (expires_at IS NULL OR expires_at > $11)
		)`,
		msg.ID, id, msg.Sender.String(), string(msg.Content.Kind),
		msg.Content.Body, msg.Nonce,
		fileName, fileID, wrappedKey, keyNonce, msg.Timestamp)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET updated_at = $2 WHERE id = $1`, id, msg.Timestamp); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

// Delete removes the session; messages cascade. Unknown ids are a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// PublishKey stores or replaces the user's public key.
func (s *Store) PublishKey(ctx context.Context, user domain.UserID, publicKey string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_keys (user_id, public_key, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET public_key = $2, updated_at = $3`,
		user.String(), publicKey, time.Now().UTC())
	return err
}

// FetchKey returns the user's published public key.
func (s *Store) FetchKey(ctx context.Context, user domain.UserID) (string, bool, error) {
	var key string
	err := s.db.QueryRowContext(ctx,
		`SELECT public_key FROM user_keys WHERE user_id = $1`, user.String()).Scan(&key)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return key, true, nil
}

var (
	_ domain.SessionStore = (*Store)(nil)
	_ domain.KeyDirectory = (*Store)(nil)
)
