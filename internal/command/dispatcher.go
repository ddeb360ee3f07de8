// Package command turns discrete UI actions into playback changes. Commands
// run one at a time on the dispatcher goroutine, so a fade that blocks the
// controller never blocks the window.
package command

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pion/logging"
	"github.com/pkg/errors"

	"github.com/iburimskiy/binaural-beats/internal/playback"
	"github.com/iburimskiy/binaural-beats/internal/tone"
)

type Kind int

const (
	SelectCarrier Kind = iota
	SelectModulation
	SetVolume
	TogglePlay
	Export
)

func (k Kind) String() string {
	switch k {
	case SelectCarrier:
		return "select carrier"
	case SelectModulation:
		return "select modulation"
	case SetVolume:
		return "set volume"
	case TogglePlay:
		return "toggle play"
	case Export:
		return "export"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Command is one UI action. Label is used by the select commands, Volume by
// SetVolume.
type Command struct {
	Kind   Kind
	Label  string
	Volume float64
}

// Player is the part of the playback controller driven by commands.
type Player interface {
	Snapshot() playback.State
	Toggle(ctx context.Context) error
	SelectCarrier(ctx context.Context, label string) error
	SelectModulation(ctx context.Context, label string) error
	SetVolume(v float64)
	Close()
}

// Exporter writes the current beat somewhere chosen by the user. It returns
// an empty path when the user cancelled.
type Exporter func(ctx context.Context, st playback.State) (path string, err error)

const queueSize = 32

type Dispatcher struct {
	player   Player
	exporter Exporter
	log      logging.LeveledLogger

	commands chan Command
	pending  atomic.Int32

	// Volume changes skip the queue; only the newest one is applied.
	volume     atomic.Pointer[float64]
	volumeWake chan struct{}

	mu      sync.Mutex
	lastErr error
	notice  string
}

func NewDispatcher(player Player, exporter Exporter, log logging.LeveledLogger) *Dispatcher {
	return &Dispatcher{
		player:   player,
		exporter: exporter,
		log:      log,
		commands:   make(chan Command, queueSize),
		volumeWake: make(chan struct{}, 1),
	}
}

// Submit queues cmd without blocking. It reports false when the queue is
// full and the command was dropped. SetVolume always succeeds and replaces
// any volume not yet applied.
func (d *Dispatcher) Submit(cmd Command) bool {
	if cmd.Kind == SetVolume {
		v := cmd.Volume
		d.volume.Store(&v)
		select {
		case d.volumeWake <- struct{}{}:
		default:
		}
		return true
	}
	d.pending.Add(1)
	select {
	case d.commands <- cmd:
		return true
	default:
		d.pending.Add(-1)
		d.log.Warnf("command queue full, dropping %s", cmd.Kind)
		return false
	}
}

// Busy reports whether a command is executing or waiting.
func (d *Dispatcher) Busy() bool {
	return d.pending.Load() > 0 || d.volume.Load() != nil
}

// LastError is the error of the most recent failed command. It is cleared
// by the next command that succeeds.
func (d *Dispatcher) LastError() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

// Notice is a short message about the last completed export.
func (d *Dispatcher) Notice() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.notice
}

// Run executes commands until ctx is cancelled, then releases the live
// sound. Recoverable errors are kept for LastError; running out of memory
// for a buffer ends Run with that error.
func (d *Dispatcher) Run(ctx context.Context) error {
	defer d.player.Close()

	ctx, cancel := context.WithCancel(ctx)
	volumeDone := make(chan struct{})
	go func() {
		defer close(volumeDone)
		d.applyVolumes(ctx)
	}()
	defer func() {
		cancel()
		<-volumeDone
		d.applyVolume()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-d.commands:
			err := d.handle(ctx, cmd)
			d.pending.Add(-1)
			if err != nil {
				return err
			}
		}
	}
}

// applyVolumes runs beside the command loop so a volume change never waits
// for a fade.
func (d *Dispatcher) applyVolumes(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.volumeWake:
			d.applyVolume()
		}
	}
}

func (d *Dispatcher) applyVolume() {
	d.pending.Add(1)
	defer d.pending.Add(-1)
	if v := d.volume.Swap(nil); v != nil {
		d.log.Debugf("%s %v", SetVolume, *v)
		d.player.SetVolume(*v)
	}
}

// handle runs cmd and records its outcome. Only fatal errors are returned.
func (d *Dispatcher) handle(ctx context.Context, cmd Command) error {
	err := d.execute(ctx, cmd)
	switch {
	case err == nil:
		d.setErr(nil)
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		// shutting down
	case errors.Is(err, tone.ErrResourceExhaustion):
		d.log.Errorf("%s: %v", cmd.Kind, err)
		return err
	default:
		d.log.Warnf("%s: %v", cmd.Kind, err)
		d.setErr(err)
	}
	return nil
}

func (d *Dispatcher) execute(ctx context.Context, cmd Command) error {
	d.log.Debugf("%s %q %v", cmd.Kind, cmd.Label, cmd.Volume)
	switch cmd.Kind {
	case SelectCarrier:
		return d.player.SelectCarrier(ctx, cmd.Label)
	case SelectModulation:
		return d.player.SelectModulation(ctx, cmd.Label)
	case SetVolume:
		d.player.SetVolume(cmd.Volume)
		return nil
	case TogglePlay:
		return d.player.Toggle(ctx)
	case Export:
		return d.export(ctx)
	}
	return errors.Errorf("unknown command %s", cmd.Kind)
}

func (d *Dispatcher) export(ctx context.Context) error {
	if d.exporter == nil {
		return errors.New("export not available")
	}
	st := d.player.Snapshot()
	path, err := d.exporter(ctx, st)
	if err != nil {
		return errors.WithMessage(err, "export")
	}
	if path == "" {
		return nil
	}
	d.log.Infof("exported %s to %s", st.Label(), path)
	d.mu.Lock()
	d.notice = "Saved " + path
	d.mu.Unlock()
	return nil
}

func (d *Dispatcher) setErr(err error) {
	d.mu.Lock()
	d.lastErr = err
	d.mu.Unlock()
}
