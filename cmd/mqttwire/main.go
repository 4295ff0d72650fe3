// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Command mqttwire decodes a captured MQTT 5.0 byte stream, logs every
// packet and optionally verifies that re-encoding reproduces the capture.
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/absmach/mqttwire/config"
	"github.com/absmach/mqttwire/internal/capture"
	"github.com/absmach/mqttwire/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const version = "0.1.0"

func main() {
	configFile := flag.String("config", "", "Path to configuration file")
	input := flag.String("input", "", "Capture file to read (overrides input.path)")
	compression := flag.String("compression", "", "Capture compression: auto, none, zstd, s2 (overrides input.compression)")
	verify := flag.Bool("verify", false, "Re-encode every packet and compare with the capture")
	output := flag.String("out", "", "Write re-encoded packets to this file")
	outCompression := flag.String("out-compression", capture.None, "Compression of the -out file: none, zstd, s2")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *input != "" {
		cfg.Input.Path = *input
	}
	if *compression != "" {
		cfg.Input.Compression = *compression
	}
	if *verify {
		cfg.Codec.Verify = true
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	switch cfg.Log.Level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	}
	runID := uuid.NewString()
	logger := slog.New(handler).With("run_id", runID)
	slog.SetDefault(logger)

	if cfg.Input.Path == "" {
		slog.Error("No capture to read, set -input or input.path")
		os.Exit(1)
	}

	slog.Info("Starting mqttwire", "version", version)
	slog.Info("Configuration loaded",
		"input", cfg.Input.Path,
		"compression", cfg.Input.Compression,
		"strict_flags", cfg.Codec.StrictFlags,
		"max_packet_size", cfg.Codec.MaxPacketSize,
		"verify", cfg.Codec.Verify,
		"telemetry_enabled", cfg.Telemetry.Enabled,
		"log_level", cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, runID, *output, *outCompression); err != nil {
		slog.Error("Inspection failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, runID, output, outCompression string) (err error) {
	shutdown, err := telemetry.InitProvider(ctx, cfg.Telemetry, runID)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("Telemetry shutdown error", "error", err)
		}
	}()

	metrics, err := telemetry.NewMetrics(otel.Meter("mqttwire"))
	if err != nil {
		return err
	}
	tracer := otel.Tracer("mqttwire")

	ctx, span := tracer.Start(ctx, "mqtt.inspect", trace.WithAttributes(
		attribute.String("capture.path", cfg.Input.Path),
		attribute.String("capture.compression", cfg.Input.Compression),
	))
	defer span.End()

	in, err := capture.Open(cfg.Input.Path, cfg.Input.Compression)
	if err != nil {
		return err
	}
	defer in.Close()

	ins := &inspector{
		codec:     telemetry.NewCodec(cfg.Codec.Decoder(), metrics, tracer),
		logger:    slog.Default(),
		verify:    cfg.Codec.Verify,
		verifyMax: cfg.Codec.VerifyMaxPacketSize,
	}

	if output != "" {
		var out io.WriteCloser
		out, err = capture.Create(output, outCompression)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := out.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		ins.out = out
	}

	start := time.Now()
	sum, err := ins.run(ctx, contextReader{ctx: ctx, r: in})
	span.SetAttributes(
		attribute.Int("mqtt.packets", sum.Packets),
		attribute.Int("mqtt.bytes", sum.Bytes),
		attribute.Int("mqtt.mismatches", sum.Mismatches),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, telemetry.ErrorClass(err))
	}

	slog.Info("Capture inspected",
		"packets", sum.Packets,
		"bytes", sum.Bytes,
		"mismatches", sum.Mismatches,
		"types", sum.Types,
		"duration", time.Since(start))
	return err
}

// contextReader stops reading once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
