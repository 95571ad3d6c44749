// Package sink creates the destination schema and loads rows into it
// (spec §4.9): DDL synthesis from the transform config, conflict-tolerant
// inserts, and relation foreign-key resolution via a per-archive gid
// memo. Inserts are issued one row per INSERT statement; rows are not
// batched into multi-row INSERTs. Grounded on storj-storj's plain
// database/sql + lib/pq usage (storj-storj's migrate/create.go and its pgutil
// package use the same driver, issuing raw SQL through *sql.DB rather
// than an ORM).
package sink

import "github.com/zeebo/errs"

var (
	SinkConflict  = errs.Class("sink conflict")
	ConnectionLost = errs.Class("connection lost")
)
