package core

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/trafficprofile/internal/contract"
	"github.com/huangsam/trafficprofile/schema"
	"golang.org/x/term"
)

// progressPrinter writes one "[i/n] 23.4 min" line per tick.
// On a terminal the line is redrawn in place.
type progressPrinter struct {
	w         io.Writer
	precision int
	redraw    bool
	drawn     bool
}

func newProgressPrinter(w io.Writer, precision int) *progressPrinter {
	if precision <= 0 {
		precision = contract.DefaultPrecision
	}
	redraw := false
	if f, ok := w.(*os.File); ok {
		redraw = term.IsTerminal(int(f.Fd()))
	}
	return &progressPrinter{w: w, precision: precision, redraw: redraw}
}

// Tick implements TickFunc.
func (p *progressPrinter) Tick(tick, total int, s schema.Sample) {
	line := fmt.Sprintf("[%d/%d] %s min", tick, total, contract.FormatMinutes(s.DurationMinutes, p.precision))
	if p.redraw {
		_, _ = fmt.Fprintf(p.w, "\r\033[K%s", line)
		p.drawn = true
		return
	}
	_, _ = fmt.Fprintln(p.w, line)
}

// Done ends a redrawn line so later output starts on a fresh one.
func (p *progressPrinter) Done() {
	if p.redraw && p.drawn {
		_, _ = fmt.Fprintln(p.w)
	}
}
