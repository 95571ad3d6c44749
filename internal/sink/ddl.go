package sink

import (
	"fmt"
	"strings"

	"github.com/edigeo-cadastre/ingest/internal/transform"
)

// pgTypeOf strips a "NOT NULL" suffix the transform config may carry on
// PgType (see transform.Engine's nonNullable convention) since that
// constraint is expressed as a column modifier here, not duplicated.
func pgTypeOf(raw string) (base string, notNull bool) {
	upper := strings.ToUpper(raw)
	if strings.Contains(upper, "NOT NULL") {
		idx := strings.Index(upper, "NOT NULL")
		return strings.TrimSpace(raw[:idx]), true
	}
	return raw, false
}

// DDL is the synthesized schema: statements to run before any archive
// is processed, and statements deferred until every archive has loaded
// (spec §4.9, §5 "deferred foreign-key DDL runs strictly after all
// archives complete").
type DDL struct {
	Statements []string
	Deferred   []string
}

// BuildDDL synthesizes the full schema DDL from a transform config,
// walking tables in the declared order given by keyOrder (from
// transform.KeyOrder on the raw config document) so that
// FeatureCollection tables are created before relation tables
// reference them (spec §5 "sink processes tables in the declared
// config order"). A plain Go map cannot carry this order itself, so
// the caller threads it through explicitly.
func BuildDDL(cfg transform.Config, keyOrder []string, schema string, outputEPSG int, dropSchema, dropTable bool) DDL {
	var ddl DDL

	if dropSchema {
		ddl.Statements = append(ddl.Statements, fmt.Sprintf(`DROP SCHEMA IF EXISTS %s CASCADE`, quoteIdent(schema)))
	}
	ddl.Statements = append(ddl.Statements, fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, quoteIdent(schema)))

	for _, kind := range keyOrder {
		tc, ok := cfg[kind]
		if !ok {
			continue
		}
		if dropTable {
			ddl.Statements = append(ddl.Statements, fmt.Sprintf(`DROP TABLE IF EXISTS %s.%s`, quoteIdent(schema), quoteIdent(tc.Table)))
		}

		var cols []string
		if tc.InsertGid {
			cols = append(cols, "gid SERIAL")
		}
		for _, f := range tc.Fields {
			base, notNull := pgTypeOf(f.PgType)
			col := fmt.Sprintf("%s %s", quoteIdent(f.DB), base)
			if notNull {
				col += " NOT NULL"
			}
			cols = append(cols, col)
		}
		if tc.Type == transform.TableFeatureCollection {
			if tc.HashGeom {
				cols = append(cols, "geomhash bytea")
			}
			cols = append(cols, fmt.Sprintf("geom geometry(Geometry, %d)", outputEPSG))
		} else {
			cols = append(cols, "millesime smallint")
		}

		create := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.%s (\n\t%s\n)", quoteIdent(schema), quoteIdent(tc.Table), strings.Join(cols, ",\n\t"))
		ddl.Statements = append(ddl.Statements, create)

		for _, constraint := range tc.PgConstraints {
			ddl.Statements = append(ddl.Statements,
				fmt.Sprintf("ALTER TABLE %s.%s ADD %s", quoteIdent(schema), quoteIdent(tc.Table), constraint))
		}

		if tc.Type == transform.TableFeatureCollection {
			idxName := fmt.Sprintf("%s_geom_gist", tc.Table)
			ddl.Statements = append(ddl.Statements,
				fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s.%s USING GIST (geom)", quoteIdent(idxName), quoteIdent(schema), quoteIdent(tc.Table)))
		}

		for _, fk := range tc.PgFkConstraints {
			stmt := strings.ReplaceAll(fk, "$schema$", schema)
			ddl.Deferred = append(ddl.Deferred,
				fmt.Sprintf("ALTER TABLE %s.%s ADD %s", quoteIdent(schema), quoteIdent(tc.Table), stmt))
		}
	}

	return ddl
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
