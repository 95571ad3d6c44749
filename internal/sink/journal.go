package sink

import (
	"context"
	"database/sql"
	"fmt"
)

// journalTable holds the incremental checksum journal: archive path →
// content checksum. It is written by the orchestrator only, never by
// workers (spec §5 "the incremental checksum journal is written by
// the orchestrator only").
const journalTable = "edigeo_ingest_journal"

// EnsureJournal creates the checksum journal table if it does not
// already exist. Called once at startup, alongside the rest of the
// immediate DDL.
func (s *Sink) EnsureJournal(ctx context.Context) error {
	stmt := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s.%s (archive_path text PRIMARY KEY, checksum text NOT NULL)`,
		quoteIdent(s.schema), quoteIdent(journalTable),
	)
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return ConnectionLost.Wrap(err)
	}
	return nil
}

// JournalChecksum returns the checksum recorded for an archive path,
// or ok=false if the archive has never been loaded.
func (s *Sink) JournalChecksum(ctx context.Context, archivePath string) (checksum string, ok bool, err error) {
	query := fmt.Sprintf(`SELECT checksum FROM %s.%s WHERE archive_path = $1`, quoteIdent(s.schema), quoteIdent(journalTable))
	err = s.db.QueryRowContext(ctx, query, archivePath).Scan(&checksum)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, ConnectionLost.Wrap(err)
	}
	return checksum, true, nil
}

// RecordJournalChecksum upserts the checksum for an archive path after
// it has successfully loaded.
func (s *Sink) RecordJournalChecksum(ctx context.Context, archivePath, checksum string) error {
	query := fmt.Sprintf(
		`INSERT INTO %s.%s (archive_path, checksum) VALUES ($1, $2)
		 ON CONFLICT (archive_path) DO UPDATE SET checksum = EXCLUDED.checksum`,
		quoteIdent(s.schema), quoteIdent(journalTable),
	)
	if _, err := s.db.ExecContext(ctx, query, archivePath, checksum); err != nil {
		return ConnectionLost.Wrap(err)
	}
	return nil
}
