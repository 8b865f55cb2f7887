package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	pdf417go "github.com/ericlevine/pdf417go"
	"github.com/ericlevine/pdf417go/binarizer"
	"github.com/ericlevine/pdf417go/charset"
	"github.com/ericlevine/pdf417go/internal/telemetry"
	"github.com/ericlevine/pdf417go/pdf417"
)

func newScanCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <image> [image...]",
		Short: "Decode every PDF417 barcode in the given images",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.scan(cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.String("format", "text", "output format (text, json, yaml)")
	flags.String("charset", charset.Default, "character set of payloads without a GLI character set")
	flags.StringSlice("binarizer", []string{binarizer.Default}, "binarizers to try in order (midrange, hybrid)")
	flags.Bool("parallel", false, "decode the symbols of one image concurrently")
	flags.Int("max-parallel", 0, "concurrent symbol decodes per image (0 = one per CPU)")
	flags.IntP("workers", "w", 4, "images decoded at the same time")
	flags.String("metrics-file", "", "write Prometheus metrics to this file after the scan")

	_ = a.v.BindPFlag("output.format", flags.Lookup("format"))
	_ = a.v.BindPFlag("output.charset", flags.Lookup("charset"))
	_ = a.v.BindPFlag("decode.binarizers", flags.Lookup("binarizer"))
	_ = a.v.BindPFlag("decode.parallel", flags.Lookup("parallel"))
	_ = a.v.BindPFlag("decode.max_parallel", flags.Lookup("max-parallel"))
	_ = a.v.BindPFlag("workers", flags.Lookup("workers"))
	_ = a.v.BindPFlag("metrics.file", flags.Lookup("metrics-file"))
	return cmd
}

func (a *app) scan(cmd *cobra.Command, paths []string) error {
	cfg := a.cfg
	factories, err := cfg.BinarizerFactories()
	if err != nil {
		return err
	}

	observer := pdf417go.Observer(telemetry.NewSlogObserver(a.logger))
	registry := prometheus.NewRegistry()
	if cfg.Metrics.File != "" {
		observer = pdf417go.MultiObserver(observer, telemetry.NewMetricsObserver(registry))
	}
	reader := pdf417.NewReader(&pdf417go.DecodeOptions{
		Observer:    observer,
		Parallel:    cfg.Decode.Parallel,
		MaxParallel: cfg.Decode.MaxParallel,
	}, factories...)

	reports := make([]fileReport, len(paths))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(cfg.Workers)
	for i, path := range paths {
		g.Go(func() error {
			report, err := scanFile(ctx, reader, path, cfg.Output.Charset)
			if err != nil {
				// cancellation is the only error that stops the other files
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := writeReports(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.Output.Format, reports); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	if cfg.Metrics.File != "" {
		if err := prometheus.WriteToTextfile(cfg.Metrics.File, registry); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	decoded := 0
	failed := 0
	for _, r := range reports {
		decoded += len(r.Barcodes)
		if r.failed() {
			failed++
		}
	}
	a.logger.Info("scan finished", slog.Int("files", len(paths)), slog.Int("failed", failed), slog.Int("barcodes", decoded))
	if failed > 0 {
		return errScanFailed
	}
	return nil
}

// scanFile decodes one image. Load and conversion failures are recorded in
// the report; only a context error is returned.
func scanFile(ctx context.Context, reader *pdf417.Reader, path, fallbackCharset string) (fileReport, error) {
	report := fileReport{File: path, Barcodes: []barcodeReport{}}
	img, err := loadImage(path)
	if err != nil {
		report.Error = err.Error()
		return report, nil
	}
	results, err := reader.DecodeImage(ctx, img)
	if err != nil {
		return report, err
	}
	for _, res := range results {
		b, err := newBarcodeReport(res, fallbackCharset)
		if err != nil {
			report.Error = err.Error()
			return report, nil
		}
		report.Barcodes = append(report.Barcodes, b)
	}
	return report, nil
}
