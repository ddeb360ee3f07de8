package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ncruces/zenity"
	"github.com/pion/logging"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/iburimskiy/binaural-beats/internal/animation"
	"github.com/iburimskiy/binaural-beats/internal/command"
	"github.com/iburimskiy/binaural-beats/internal/config"
	"github.com/iburimskiy/binaural-beats/internal/game"
	"github.com/iburimskiy/binaural-beats/internal/playback"
	"github.com/iburimskiy/binaural-beats/internal/tone"
)

const windowTitle = "Binaural Beats - Space: Play/Pause, 1-7: Carrier, Z-V: Beat, Esc/Q: Quit"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "binaural-beats: %v\n", err)
		_ = zenity.Error(err.Error(), zenity.Title("Binaural Beats"))
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	loggers := newLoggerFactory(cfg.LogLevel)
	log := loggers.NewLogger("main")

	tap := playback.NewTap(config.VisualRingSize)
	sink, err := openSink(cfg, tap, loggers.NewLogger("playback"))
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			log.Warnf("close audio: %v", err)
		}
	}()

	ctrl, err := playback.NewController(sink, playback.Options{
		SampleRate:   config.SampleRate,
		ToneDuration: cfg.ToneDuration,
		FadeDuration: cfg.FadeDuration,
		Volume:       cfg.Volume,
		Carrier:      cfg.Carrier,
		Modulation:   cfg.Modulation,
	}, loggers.NewLogger("playback"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	grp, gctx := errgroup.WithContext(ctx)

	disp := command.NewDispatcher(ctrl, saveDialog(cfg, loggers.NewLogger("export")), loggers.NewLogger("command"))
	g := game.New(gctx, ctrl, disp, tap, loggers.NewLogger("game"))

	root, _ := tone.LookupCarrier(tone.DefaultCarrier)
	canvas := animation.NewRaster(config.CanvasWidth, config.CanvasHeight, animation.ColorFor(root.Hz), g)
	loop := animation.NewLoop(ctrl, canvas, g, animation.Options{OverlayEvery: cfg.OverlayEvery}, loggers.NewLogger("animation"))

	grp.Go(func() error { return disp.Run(gctx) })
	grp.Go(func() error { return loop.Run(gctx) })

	log.Infof("audio backend %s, %s", cfg.AudioBackend, ctrl.Snapshot().Label())

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowClosingHandled(true)
	runErr := ebiten.RunGame(g)

	g.RequestQuit()
	cancel()
	if err := grp.Wait(); err != nil && !errors.Is(err, animation.ErrWindowClosed) {
		return err
	}
	if runErr != nil && !errors.Is(runErr, ebiten.Termination) {
		return errors.Wrap(runErr, "window")
	}
	return nil
}

func openSink(cfg config.Config, tap *playback.Tap, log logging.LeveledLogger) (playback.Sink, error) {
	switch cfg.AudioBackend {
	case "beep":
		return playback.NewBeepSink(config.SampleRate, cfg.BufferDuration, tap, log)
	case "oto":
		return playback.NewOtoSink(config.SampleRate, cfg.BufferDuration, tap, log)
	case "headless":
		return playback.NewHeadlessSink(), nil
	}
	return nil, errors.Errorf("unknown audio backend %q", cfg.AudioBackend)
}

// saveDialog asks for a destination and writes the current beat there.
func saveDialog(cfg config.Config, log logging.LeveledLogger) command.Exporter {
	return func(ctx context.Context, st playback.State) (string, error) {
		path, err := zenity.SelectFileSave(
			zenity.Context(ctx),
			zenity.Title("Export Binaural Beat"),
			zenity.Filename(exportName(st)),
			zenity.ConfirmOverwrite(),
			zenity.FileFilters{{
				Name:     "WAV audio",
				Patterns: []string{"*.wav"},
			}},
		)
		if errors.Is(err, zenity.ErrCanceled) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		if filepath.Ext(path) == "" {
			path += ".wav"
		}
		log.Debugf("writing %ds to %s", cfg.ExportSeconds, path)
		if err := playback.ExportFile(path, st, cfg.ExportSeconds, config.SampleRate, cfg.ToneDuration); err != nil {
			return "", err
		}
		return path, nil
	}
}

func exportName(st playback.State) string {
	return fmt.Sprintf("binaural-%g-%g.wav", st.Carrier.Hz, st.Modulation.Hz)
}

func newLoggerFactory(level string) *logging.DefaultLoggerFactory {
	f := logging.NewDefaultLoggerFactory()
	f.Writer = os.Stderr
	f.DefaultLogLevel = parseLevel(level)
	return f
}

func parseLevel(level string) logging.LogLevel {
	switch level {
	case "disabled", "off":
		return logging.LogLevelDisabled
	case "error":
		return logging.LogLevelError
	case "warn", "warning":
		return logging.LogLevelWarn
	case "debug":
		return logging.LogLevelDebug
	case "trace":
		return logging.LogLevelTrace
	}
	return logging.LogLevelInfo
}
