package sink

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/edigeo-cadastre/ingest/internal/decode"
	"github.com/edigeo-cadastre/ingest/internal/transform"
)

// Sink owns the destination connection and the table config it loads.
// The per-archive gid memo that relation rows use to resolve a
// feature's natural key into its surrogate gid is a separate GidMemo,
// created by the caller for each archive.
type Sink struct {
	db         *sql.DB
	schema     string
	config     transform.Config
	keyOrder   []string
	outputEPSG int
}

// Open connects to the destination database and prepares the schema
// DDL, but does not execute it; callers run EnsureSchema explicitly so
// orchestration can log and time that step separately (spec §4.9).
func Open(connStr string, cfg transform.Config, keyOrder []string, schema string, outputEPSG int) (*Sink, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, ConnectionLost.Wrap(err)
	}
	if err := db.Ping(); err != nil {
		return nil, ConnectionLost.Wrap(err)
	}
	return &Sink{db: db, schema: schema, config: cfg, keyOrder: keyOrder, outputEPSG: outputEPSG}, nil
}

// Close releases the underlying connection pool.
func (s *Sink) Close() error {
	return s.db.Close()
}

// EnsureSchema runs the immediate (non-deferred) DDL: schema and table
// creation, constraints, and the GiST geometry index. Deferred foreign
// keys run later via RunDeferred, once every archive has loaded (spec
// §5).
func (s *Sink) EnsureSchema(ctx context.Context, dropSchema, dropTable bool) (deferred []string, err error) {
	ddl := BuildDDL(s.config, s.keyOrder, s.schema, s.outputEPSG, dropSchema, dropTable)
	for _, stmt := range ddl.Statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return nil, ConnectionLost.Wrap(fmt.Errorf("exec %q: %w", stmt, err))
		}
	}
	return ddl.Deferred, nil
}

// RunDeferred executes the foreign-key statements EnsureSchema held
// back, after every archive in the batch has been loaded.
func (s *Sink) RunDeferred(ctx context.Context, deferred []string) error {
	for _, stmt := range deferred {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return ConnectionLost.Wrap(fmt.Errorf("exec %q: %w", stmt, err))
		}
	}
	return nil
}

// GidMemo maps a feature's natural key (kind + id) to the surrogate
// gid its row received, scoped to a single archive (spec §4.9).
type GidMemo map[string]int64

func memoKey(kind, id string) string {
	return kind + "\x00" + id
}

// Put records the gid a feature's row received.
func (m GidMemo) Put(kind, id string, gid int64) {
	m[memoKey(kind, id)] = gid
}

// Lookup resolves a feature's gid, returning ok=false if the feature
// was never inserted (e.g. it failed a non-nullable coercion and was
// dropped).
func (m GidMemo) Lookup(kind, id string) (int64, bool) {
	gid, ok := m[memoKey(kind, id)]
	return gid, ok
}

// InsertFeatureRow inserts one FeatureCollection row, returning the
// gid Postgres assigned it when the table declares InsertGid. Rows
// that collide with an existing unique constraint are skipped, not
// errored: spec §4.9 calls for "ON CONFLICT DO NOTHING" semantics
// since re-running an archive must be idempotent.
func (s *Sink) InsertFeatureRow(ctx context.Context, kind string, row transform.Row) (gid int64, inserted bool, err error) {
	tc, ok := s.config[kind]
	if !ok {
		return 0, false, SinkConflict.Wrap(fmt.Errorf("no table config for kind %q", kind))
	}

	cols := make([]string, 0, len(tc.Fields)+2)
	placeholders := make([]string, 0, len(tc.Fields)+2)
	args := make([]any, 0, len(tc.Fields)+2)
	n := 1
	for _, f := range tc.Fields {
		cols = append(cols, quoteIdent(f.DB))
		placeholders = append(placeholders, fmt.Sprintf("$%d", n))
		args = append(args, row[f.DB])
		n++
	}
	if tc.HashGeom {
		cols = append(cols, "geomhash")
		placeholders = append(placeholders, fmt.Sprintf("$%d", n))
		args = append(args, row["geomhash"])
		n++
	}
	geom, ok := row["__geometry"].(decode.Geometry)
	if !ok {
		return 0, false, SinkConflict.Wrap(fmt.Errorf("row for kind %q has no assembled geometry", kind))
	}
	cols = append(cols, "geom")
	placeholders = append(placeholders, fmt.Sprintf("ST_GeomFromText($%d, %d)", n, s.outputEPSG))
	args = append(args, ToWKT(geom))
	n++

	query := fmt.Sprintf(
		"INSERT INTO %s.%s (%s) VALUES (%s) ON CONFLICT DO NOTHING",
		quoteIdent(s.schema), quoteIdent(tc.Table), strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	)

	if tc.InsertGid {
		query += " RETURNING gid"
		var returnedGid int64
		if err := s.db.QueryRowContext(ctx, query, args...).Scan(&returnedGid); err != nil {
			if err == sql.ErrNoRows {
				return 0, false, nil
			}
			return 0, false, ConnectionLost.Wrap(err)
		}
		return returnedGid, true, nil
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, false, ConnectionLost.Wrap(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, false, ConnectionLost.Wrap(err)
	}
	return 0, affected > 0, nil
}

// InsertRelationRow inserts one relation-table row, given the gids of
// the two features it pairs (spec §4.8 RelationRow, §4.9 relation
// insert). The caller resolves both gids via GidMemo before calling.
func (s *Sink) InsertRelationRow(ctx context.Context, kind string, left, right int64, millesime int) (bool, error) {
	tc, ok := s.config[kind]
	if !ok {
		return false, SinkConflict.Wrap(fmt.Errorf("no table config for kind %q", kind))
	}
	if len(tc.Fields) < 2 {
		return false, SinkConflict.Wrap(fmt.Errorf("relation table %q needs at least two fields", kind))
	}

	query := fmt.Sprintf(
		"INSERT INTO %s.%s (%s, %s, millesime) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING",
		quoteIdent(s.schema), quoteIdent(tc.Table), quoteIdent(tc.Fields[0].DB), quoteIdent(tc.Fields[1].DB),
	)
	res, err := s.db.ExecContext(ctx, query, left, right, millesime)
	if err != nil {
		return false, ConnectionLost.Wrap(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, ConnectionLost.Wrap(err)
	}
	return affected > 0, nil
}
