// Package display redraws a status block on a terminal at a fixed
// interval.
package display

import (
	"bytes"
	"io"
	"sync"
	"time"

	"github.com/gosuri/uilive"
)

type Displayer interface {
	// Display writes the current status to w and reports whether
	// updates should continue.
	Display(w io.Writer) bool
}

type Display struct {
	live     *uilive.Writer
	interval time.Duration
	updater  Displayer
	buffer   *bytes.Buffer
	close    chan struct{}
	once     sync.Once
	done     sync.WaitGroup
}

func New(w io.Writer, updater Displayer, interval time.Duration) *Display {
	live := uilive.New()
	if w != nil {
		live.Out = w
	}
	return &Display{
		live:     live,
		interval: interval,
		updater:  updater,
		buffer:   bytes.NewBuffer(nil),
		close:    make(chan struct{}),
	}
}

func (d *Display) update() bool {
	d.buffer.Reset()
	cont := d.updater.Display(d.buffer)
	// Ignore any errors.
	_, _ = io.Copy(d.live, d.buffer)
	_ = d.live.Flush()
	return cont
}

func (d *Display) stop() {
	d.once.Do(func() { close(d.close) })
}

// Start updates the display in a new goroutine until the Displayer
// returns false or Close is called.
func (d *Display) Start() {
	d.done.Add(1)
	go d.run()
}

func (d *Display) run() {
	defer d.done.Done()
	for {
		if !d.update() {
			d.stop()
		}
		select {
		case <-d.close:
			return
		case <-time.After(d.interval):
		}
	}
}

func (d *Display) Bypass() io.Writer {
	return d.live.Bypass()
}

// Close stops Run and draws the final state.
func (d *Display) Close() {
	d.stop()
	d.done.Wait()
	d.update()
}

func (d *Display) Wait() {
	d.done.Wait()
}
