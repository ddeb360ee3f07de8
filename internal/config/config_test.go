package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"BINAURAL_AUDIO", "BINAURAL_BUFFER_MS", "BINAURAL_FADE_MS", "BINAURAL_VOLUME",
		"BINAURAL_CARRIER", "BINAURAL_MODULATION", "BINAURAL_EXPORT_SECONDS",
		"BINAURAL_OVERLAY_EVERY", "BINAURAL_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "beep", cfg.AudioBackend)
	assert.Equal(t, 50*time.Millisecond, cfg.BufferDuration)
	assert.Equal(t, time.Second, cfg.FadeDuration)
	assert.Equal(t, time.Second, cfg.ToneDuration)
	assert.Equal(t, 0.25, cfg.Volume)
	assert.Equal(t, "Root Chakra - 198 Hz", cfg.Carrier)
	assert.Equal(t, "Delta", cfg.Modulation)
	assert.Equal(t, 60, cfg.ExportSeconds)
	assert.Equal(t, 1, cfg.OverlayEvery)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BINAURAL_AUDIO", "OTO")
	t.Setenv("BINAURAL_FADE_MS", "250")
	t.Setenv("BINAURAL_VOLUME", "0.8")
	t.Setenv("BINAURAL_MODULATION", "Beta")
	t.Setenv("BINAURAL_LOG_LEVEL", "Debug")

	cfg := Load()
	assert.Equal(t, "oto", cfg.AudioBackend)
	assert.Equal(t, 250*time.Millisecond, cfg.FadeDuration)
	assert.Equal(t, 0.8, cfg.Volume)
	assert.Equal(t, "Beta", cfg.Modulation)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("BINAURAL_FADE_MS", "soon")
	t.Setenv("BINAURAL_VOLUME", "loud")

	cfg := Load()
	assert.Equal(t, time.Second, cfg.FadeDuration)
	assert.Equal(t, 0.25, cfg.Volume)
}

func TestWindowFitsCanvasAndPanel(t *testing.T) {
	assert.Equal(t, CanvasWidth+PanelWidth, WindowWidth)
	assert.Equal(t, CanvasHeight, WindowHeight)
}
