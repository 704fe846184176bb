package postgres

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS user_keys (
			user_id VARCHAR(255) PRIMARY KEY,
			public_key TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS sessions (
			id VARCHAR(64) PRIMARY KEY,
			name TEXT NOT NULL,
			participant_a VARCHAR(255) NOT NULL,
			participant_b VARCHAR(255) NOT NULL,
			password_hash TEXT,
			expires_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_sessions_expiry
		ON sessions(expires_at)
		WHERE expires_at IS NOT NULL`,

		`CREATE INDEX IF NOT EXISTS idx_sessions_participants
		ON sessions(participant_a, participant_b)`,

		`CREATE TABLE IF NOT EXISTS messages (
			seq BIGSERIAL PRIMARY KEY,
			id VARCHAR(64) NOT NULL,
			session_id VARCHAR(64) NOT NULL
				REFERENCES sessions(id) ON DELETE CASCADE,
			sender VARCHAR(255) NOT NULL,
			kind VARCHAR(16) NOT NULL,
			body TEXT NOT NULL DEFAULT '',
			nonce TEXT NOT NULL DEFAULT '',
			file_name TEXT NOT NULL DEFAULT '',
			file_id TEXT NOT NULL DEFAULT '',
			wrapped_key TEXT NOT NULL DEFAULT '',
			key_nonce TEXT NOT NULL DEFAULT '',
			ts TIMESTAMPTZ NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_messages_session
		ON messages(session_id, seq)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}
