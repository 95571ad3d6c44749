package orchestrator

import (
	"context"
	"fmt"

	"github.com/edigeo-cadastre/ingest/internal/decode"
	"github.com/edigeo-cadastre/ingest/internal/department"
	"github.com/edigeo-cadastre/ingest/internal/sink"
	"github.com/edigeo-cadastre/ingest/internal/transform"
	"go.uber.org/zap"
)

// Pipeline wires C1-C9 together for one archive. Each worker owns one
// Pipeline value (through the PipelineFactory passed to Dispatch) so the decoded sheet, feature
// set, and per-archive gid memo never cross goroutine boundaries
// (spec §5 "the primitive store and feature set are worker-local").
type Pipeline struct {
	Sink       *sink.Sink
	Config     transform.Config
	Order      []string
	Resolver   department.Resolver
	Millesime  int
	OutputCRS  decode.CRS
	DecodeOpts decode.DecodeOptions
	Log        *zap.SugaredLogger
}

// Run decodes one archive and loads every configured table for it
// (C1 through C9). It never aborts the caller's dispatch loop; every
// error it returns is meant to be logged per-archive and isolated,
// except sink.ConnectionLost which signals the caller to stop pulling
// further archives on this worker (spec §7).
func (p *Pipeline) Run(ctx context.Context, archivePath string) error {
	sheet, err := decode.Decode(archivePath, p.DecodeOpts)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	for _, ferr := range sheet.Errors {
		p.Log.Warnw("feature build error", "archive", archivePath, "kind", ferr.Kind, "id", ferr.ID, "err", ferr.Err)
	}

	// The spatial department lookup uses the SECTION feature's extent;
	// a sheet without one falls back to the extent of all its features.
	boundsSrc := sheet.Features
	var sections []decode.Feature
	for _, f := range sheet.Features {
		if f.Kind == "SECTION" {
			sections = append(sections, f)
		}
	}
	if len(sections) > 0 {
		boundsSrc = sections
	}
	bbox, err := wgs84Bounds(boundsSrc, sheet.CRS())
	if err != nil {
		return fmt.Errorf("compute bounds: %w", err)
	}
	depCode, err := p.Resolver.Resolve(archivePath, bbox)
	if err != nil {
		return fmt.Errorf("resolve department: %w", err)
	}

	constants := deriveConstants(sheet)
	ctxVals := transform.CoerceContext{Millesime: p.Millesime, Dep: string(depCode)}
	memo := make(sink.GidMemo)

	for _, kind := range p.Order {
		tc, ok := p.Config[kind]
		if !ok || tc.Type != transform.TableFeatureCollection {
			continue
		}
		engine := transform.Engine{
			Config:    tc,
			Constants: constants,
			Ctx:       ctxVals,
			InputCRS:  sheet.CRS(),
			OutputCRS: p.OutputCRS,
		}
		for _, f := range sheet.Features {
			if f.Kind != kind {
				continue
			}
			row, err := engine.BuildRow(f)
			if err != nil {
				p.Log.Warnw("row coercion failed", "archive", archivePath, "kind", kind, "id", f.ID, "err", err)
				continue
			}
			gid, inserted, err := p.Sink.InsertFeatureRow(ctx, kind, row)
			if err != nil {
				return fmt.Errorf("insert %s/%s: %w", kind, f.ID, err)
			}
			if inserted && tc.InsertGid {
				memo.Put(kind, f.ID, gid)
			}
		}
	}

	for _, kind := range p.Order {
		tc, ok := p.Config[kind]
		if !ok || tc.Type != transform.TableRelation {
			continue
		}
		pairs := transform.ResolveRelationPairs(tc, sheet.Features)
		for _, rows := range transform.BuildRelationRows(pairs, p.Millesime) {
			left, leftOK := memo.Lookup(tc.Fields[0].TableSource, rows.Left)
			right, rightOK := memo.Lookup(tc.Fields[1].TableSource, rows.Right)
			if !leftOK || !rightOK {
				continue
			}
			if _, err := p.Sink.InsertRelationRow(ctx, kind, left, right, rows.Millesime); err != nil {
				return fmt.Errorf("insert relation %s: %w", kind, err)
			}
		}
	}

	return nil
}
