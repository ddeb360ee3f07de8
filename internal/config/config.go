package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	CanvasWidth  = 800
	CanvasHeight = 600
	PanelWidth   = 280
	WindowWidth  = CanvasWidth + PanelWidth
	WindowHeight = CanvasHeight

	SampleRate = 44100
	Channels   = 2
	BitDepth   = 16

	VisualRingSize  = 4096
	SmoothingFactor = 0.6

	// Animation parameters
	OverlayAlpha   = 60
	TraceAmplitude = 100
	TraceCenter    = 300
	TraceSamples   = 800

	// Button dimensions
	ButtonWidth  = 248
	ButtonHeight = 22
	ButtonGap    = 4
	PanelMargin  = 16
)

// Config holds runtime configuration, loaded from environment variables.
type Config struct {
	// Audio output
	AudioBackend   string        // beep, oto or headless
	BufferDuration time.Duration // device buffer
	FadeDuration   time.Duration // fade-in and fade-out length
	ToneDuration   time.Duration // length of the looped buffer

	// Initial selection
	Volume     float64
	Carrier    string
	Modulation string

	ExportSeconds int
	OverlayEvery  int
	LogLevel      string
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		AudioBackend:   strings.ToLower(envStr("BINAURAL_AUDIO", "beep")),
		BufferDuration: time.Duration(envInt("BINAURAL_BUFFER_MS", 50)) * time.Millisecond,
		FadeDuration:   time.Duration(envInt("BINAURAL_FADE_MS", 1000)) * time.Millisecond,
		ToneDuration:   time.Second,

		Volume:     envFloat("BINAURAL_VOLUME", 0.25),
		Carrier:    envStr("BINAURAL_CARRIER", "Root Chakra - 198 Hz"),
		Modulation: envStr("BINAURAL_MODULATION", "Delta"),

		ExportSeconds: envInt("BINAURAL_EXPORT_SECONDS", 60),
		OverlayEvery:  envInt("BINAURAL_OVERLAY_EVERY", 1),
		LogLevel:      strings.ToLower(envStr("BINAURAL_LOG_LEVEL", "info")),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
