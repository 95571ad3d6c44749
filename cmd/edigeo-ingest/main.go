// Command edigeo-ingest decodes EDIGEO cadastral archives and loads
// them into a PostGIS-backed relational schema (spec §6 "CLI
// surface").
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	appconfig "github.com/edigeo-cadastre/ingest/internal/config"
	"github.com/edigeo-cadastre/ingest/internal/decode"
	"github.com/edigeo-cadastre/ingest/internal/department"
	"github.com/edigeo-cadastre/ingest/internal/logging"
	"github.com/edigeo-cadastre/ingest/internal/orchestrator"
	"github.com/edigeo-cadastre/ingest/internal/sink"
	"github.com/edigeo-cadastre/ingest/internal/transform"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "edigeo-ingest <source>",
		Short: "Decode EDIGEO cadastral archives into a relational store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0], v)
		},
	}

	fs := cmd.Flags()
	fs.String("millesime", "", "ingest vintage, YYYY-MM (required)")
	fs.String("schema", "cadastre", "target schema name")
	fs.Int("epsg", 4326, "output coordinate reference system")
	fs.Int("workers", 0, "worker count (0 = host CPU count)")
	fs.String("dep-policy", "fromFile", "department resolution: auto | fromFile | a literal code")
	fs.String("dep-boundaries", "", "path to a department boundary JSON file (required for --dep-policy auto)")
	fs.Int("verbosity", 1, "progress verbosity, 0-3")
	fs.Bool("drop-schema", false, "drop the target schema before loading")
	fs.Bool("drop-table", false, "drop each target table before loading")
	fs.Bool("incremental", true, "skip archives whose content checksum is unchanged")
	fs.String("preset", "full", "table preset: full | light | bati")
	fs.String("config", "", "explicit table config JSON path (overrides --preset)")
	_ = cmd.MarkFlagRequired("millesime")

	appconfig.BindConnectionFlags(fs, v)
	_ = v.BindPFlags(fs)

	return cmd
}

func run(ctx context.Context, source string, v *viper.Viper) error {
	verbosity := v.GetInt("verbosity")

	zapLogger, err := logging.New(verbosity)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer zapLogger.Sync() //nolint:errcheck
	log := zapLogger.Sugar()

	millesime, err := parseMillesime(v.GetString("millesime"))
	if err != nil {
		return transform.ConfigInvalid.Wrap(err)
	}

	cfg, order, err := resolveTableConfig(v)
	if err != nil {
		return err
	}

	resolver, err := resolveDepartmentPolicy(v)
	if err != nil {
		return err
	}

	conn := appconfig.ConnectionFromViper(v)
	s, err := sink.Open(conn.ConnString(), cfg, order, v.GetString("schema"), v.GetInt("epsg"))
	if err != nil {
		return err
	}
	defer s.Close() //nolint:errcheck

	if err := s.EnsureJournal(ctx); err != nil {
		return err
	}
	deferred, err := s.EnsureSchema(ctx, v.GetBool("drop-schema"), v.GetBool("drop-table"))
	if err != nil {
		return err
	}

	archives, err := orchestrator.Discover(source)
	if err != nil {
		return fmt.Errorf("discover archives: %w", err)
	}
	log.Infow("discovered archives", "count", len(archives))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	newPipeline := func() orchestrator.Runner {
		return &orchestrator.Pipeline{
			Sink:       s,
			Config:     cfg,
			Order:      order,
			Resolver:   resolver,
			Millesime:  millesime,
			OutputCRS:  decode.CRS(v.GetInt("epsg")),
			DecodeOpts: decode.DefaultDecodeOptions(),
			Log:        log,
		}
	}

	opts := orchestrator.Options{
		Workers:     v.GetInt("workers"),
		Verbosity:   verbosity,
		Incremental: v.GetBool("incremental"),
	}
	summary := orchestrator.Dispatch(ctx, archives, s, newPipeline, opts, log)

	if err := s.RunDeferred(ctx, deferred); err != nil {
		return fmt.Errorf("run deferred DDL: %w", err)
	}

	log.Infow("ingest complete",
		"processed", summary.Processed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"successRate", summary.SuccessRate(),
	)
	for _, e := range summary.Errors {
		log.Errorw("archive failed", "archive", e.Path, "err", e.Err)
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d archive(s) failed", summary.Failed)
	}
	return nil
}

// parseMillesime extracts the smallint millésime year from a
// "YYYY-MM" date (spec §6 "the millésime is a smallint derived by
// taking the numeric year of the input date").
func parseMillesime(raw string) (int, error) {
	parts := strings.SplitN(raw, "-", 2)
	if len(parts) != 2 || len(parts[0]) != 4 {
		return 0, fmt.Errorf("millesime %q must be in YYYY-MM form", raw)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("millesime %q has a non-numeric year: %w", raw, err)
	}
	return year, nil
}

func resolveTableConfig(v *viper.Viper) (transform.Config, []string, error) {
	if path := v.GetString("config"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, transform.ConfigInvalid.Wrap(err)
		}
		cfg, err := transform.LoadConfig(data)
		if err != nil {
			return nil, nil, err
		}
		order, err := transform.KeyOrder(data)
		if err != nil {
			return nil, nil, err
		}
		return cfg, order, nil
	}

	preset, ok := appconfig.Resolve(v.GetString("preset"))
	if !ok {
		return nil, nil, transform.ConfigInvalid.Wrap(fmt.Errorf("unknown preset %q", v.GetString("preset")))
	}
	return preset.Config, preset.Order, nil
}

func resolveDepartmentPolicy(v *viper.Viper) (department.Resolver, error) {
	policy := v.GetString("dep-policy")
	switch policy {
	case "auto":
		path := v.GetString("dep-boundaries")
		if path == "" {
			return department.Resolver{}, department.ConfigInvalid.Wrap(fmt.Errorf("--dep-policy auto requires --dep-boundaries"))
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return department.Resolver{}, department.ConfigInvalid.Wrap(err)
		}
		boundaries, err := department.LoadBoundariesFromJSON(data)
		if err != nil {
			return department.Resolver{}, err
		}
		return department.Resolver{Policy: department.PolicySpatial, Index: department.LoadIndex(boundaries)}, nil

	case "fromFile":
		return department.Resolver{Policy: department.PolicyFromFilename}, nil

	default:
		return department.Resolver{Policy: department.PolicyExplicit, Explicit: department.Code(policy)}, nil
	}
}
