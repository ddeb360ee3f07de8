package main

import (
	"testing"

	"github.com/pion/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/binaural-beats/internal/config"
	"github.com/iburimskiy/binaural-beats/internal/playback"
	"github.com/iburimskiy/binaural-beats/internal/tone"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]logging.LogLevel{
		"off":     logging.LogLevelDisabled,
		"error":   logging.LogLevelError,
		"warning": logging.LogLevelWarn,
		"info":    logging.LogLevelInfo,
		"debug":   logging.LogLevelDebug,
		"trace":   logging.LogLevelTrace,
		"bogus":   logging.LogLevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestExportName(t *testing.T) {
	carrier, ok := tone.LookupCarrier("Heart Chakra - 319 Hz")
	require.True(t, ok)
	mod, ok := tone.LookupModulation("Alpha")
	require.True(t, ok)
	assert.Equal(t, "binaural-319-10.wav", exportName(playback.State{Carrier: carrier, Modulation: mod}))
}

func TestOpenSink(t *testing.T) {
	log := logging.NewDefaultLoggerFactory().NewLogger("test")
	tap := playback.NewTap(config.VisualRingSize)

	sink, err := openSink(config.Config{AudioBackend: "headless"}, tap, log)
	require.NoError(t, err)
	assert.IsType(t, &playback.HeadlessSink{}, sink)

	_, err = openSink(config.Config{AudioBackend: "alsa"}, tap, log)
	assert.ErrorContains(t, err, `unknown audio backend "alsa"`)
}
