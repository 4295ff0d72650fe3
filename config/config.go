// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"time"

	v5 "github.com/absmach/mqttwire/core/packets/v5"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the packet inspector.
type Config struct {
	Codec     CodecConfig     `yaml:"codec"`
	Input     InputConfig     `yaml:"input"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// CodecConfig holds decoding and encoding options.
type CodecConfig struct {
	// Reject reserved fixed header flags that differ from the protocol values.
	StrictFlags bool `yaml:"strict_flags"`

	// Largest accepted packet in bytes, 0 for no limit.
	MaxPacketSize uint32 `yaml:"max_packet_size"`

	// Re-encode every decoded packet and compare it with the captured bytes.
	Verify bool `yaml:"verify"`

	// Ceiling passed to the encoder when verifying, 0 for no limit.
	VerifyMaxPacketSize uint32 `yaml:"verify_max_packet_size"`
}

// InputConfig describes the capture to read.
type InputConfig struct {
	Path        string `yaml:"path"`
	Compression string `yaml:"compression"` // auto, none, zstd, s2
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Endpoint        string        `yaml:"endpoint"` // OTLP gRPC endpoint
	ServiceName     string        `yaml:"service_name"`
	ServiceVersion  string        `yaml:"service_version"`
	MetricsEnabled  bool          `yaml:"metrics_enabled"`
	TracesEnabled   bool          `yaml:"traces_enabled"`
	TraceSampleRate float64       `yaml:"trace_sample_rate"` // 0.0 to 1.0
	ExportInterval  time.Duration `yaml:"export_interval"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Codec: CodecConfig{
			StrictFlags:   true,
			MaxPacketSize: 0,
		},
		Input: InputConfig{
			Compression: "auto",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			Enabled:         false,
			Endpoint:        "localhost:4317",
			ServiceName:     "mqttwire",
			ServiceVersion:  "0.1.0",
			MetricsEnabled:  true,
			TracesEnabled:   false,
			TraceSampleRate: 1.0,
			ExportInterval:  10 * time.Second,
		},
	}
}

// Load loads configuration from a YAML file.
// If the file doesn't exist, returns default configuration.
func Load(filename string) (*Config, error) {
	if filename == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	validCompression := map[string]bool{"auto": true, "none": true, "zstd": true, "s2": true}
	if !validCompression[c.Input.Compression] {
		return fmt.Errorf("input.compression must be one of: auto, none, zstd, s2")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("log.format must be one of: text, json")
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.Endpoint == "" {
			return fmt.Errorf("telemetry.endpoint cannot be empty when telemetry is enabled")
		}
		if c.Telemetry.ServiceName == "" {
			return fmt.Errorf("telemetry.service_name cannot be empty when telemetry is enabled")
		}
		if c.Telemetry.TraceSampleRate < 0.0 || c.Telemetry.TraceSampleRate > 1.0 {
			return fmt.Errorf("telemetry.trace_sample_rate must be between 0.0 and 1.0")
		}
		if c.Telemetry.ExportInterval < time.Second {
			return fmt.Errorf("telemetry.export_interval must be at least 1 second")
		}
	}

	return nil
}

// Decoder returns the packet decoder described by the codec settings.
func (c CodecConfig) Decoder() v5.Decoder {
	return v5.Decoder{
		StrictFlags:   c.StrictFlags,
		MaxPacketSize: c.MaxPacketSize,
	}
}
