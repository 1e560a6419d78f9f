// Package dashboard repaints the terminal with all server panels and the global event feed at a fixed rate.
package dashboard

import (
	"bytes"
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/pingboard/internal/advert"
	"github.com/woozymasta/pingboard/internal/event"
	"golang.org/x/term"
)

// clearScreen moves the cursor home and erases the display.
const clearScreen = "\x1b[H\x1b[2J"

// minRate bounds the frame interval.
const minRate = 16 * time.Millisecond

// Dashboard paints frames to an output.
type Dashboard struct {
	out     io.Writer
	adverts *advert.Manager
	global  *event.Renderer
	buf     bytes.Buffer
	rate    time.Duration
	clear   bool
}

// New creates a Dashboard painting every rate. When clear is set every frame starts with a screen clear.
func New(out io.Writer, adverts *advert.Manager, global *event.Renderer, rate time.Duration, clear bool) *Dashboard {
	if rate < minRate {
		log.Warn().
			Dur("requested", rate).
			Dur("used", minRate).
			Msg("Render rate too low, clamping")
		rate = minRate
	}

	return &Dashboard{
		out:     out,
		adverts: adverts,
		global:  global,
		rate:    rate,
		clear:   clear,
	}
}

// IsTerminal reports whether w is a terminal, the only case where clearing makes sense.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Frame renders one frame: server panels first, then the global feed after expiring it.
func (d *Dashboard) Frame() []byte {
	d.buf.Reset()
	if d.clear {
		d.buf.WriteString(clearScreen)
	}

	d.adverts.Render(&d.buf)

	d.global.Tick()
	d.global.Render(&d.buf)

	return d.buf.Bytes()
}

// Draw writes one frame to the output in a single write.
func (d *Dashboard) Draw() error {
	_, err := d.out.Write(d.Frame())
	return err
}

// Run draws a frame every rate until ctx is done.
func (d *Dashboard) Run(ctx context.Context) {
	ticker := time.NewTicker(d.rate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.Draw(); err != nil {
				log.Error().Err(err).Msg("Failed to draw frame")
				return
			}
		}
	}
}
