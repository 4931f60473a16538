package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/cyberio/blocks"
	"github.com/lixenwraith/cyberio/observer"
	"github.com/lixenwraith/cyberio/render"
	"github.com/lixenwraith/cyberio/status"
	"github.com/lixenwraith/cyberio/world"
)

type loop struct {
	world  *world.World
	hub    *observer.Hub
	set    *blocks.Set
	rateHz int
	paused bool
}

// step advances one tick and publishes the result
func (l *loop) step() {
	l.world.Update()
	if l.hub != nil {
		if err := l.hub.Publish(observer.BuildFrame(l.world)); err != nil {
			log.Printf("observer publish: %v", err)
		}
	}
}

func (l *loop) interval() time.Duration {
	hz := l.rateHz
	if hz <= 0 {
		hz = 60
	}
	return time.Second / time.Duration(hz)
}

// headless runs n ticks without a screen and prints a summary
func (l *loop) headless(ctx context.Context, n int, out io.Writer) {
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		l.step()
	}
	fmt.Fprintf(out, "tick %d\n", l.world.Tick())
	l.world.Each(func(b world.Building) {
		state := "-"
		if a, ok := b.(interface{ AniState() string }); ok && a.AniState() != "" {
			state = a.AniState()
		}
		fmt.Fprintf(out, "%-22s %-9v %-8v %s\n", b.BlockName(), b.Pos(), b.Team(), state)
	})
	m := l.world.Status().Snapshot()
	fmt.Fprintf(out, "links=%.0f rejected=%.0f delivered=%.2f transitions=%.0f\n",
		m[status.StreamLinks], m[status.StreamRejected], m[status.StreamDelivered], m[status.AnimTransitions])
}

// cycleGears moves every projector to its next gear
func (l *loop) cycleGears() {
	l.world.Each(func(b world.Building) {
		if ud, ok := b.(*blocks.UnderdriveBuild); ok {
			next := ud.CurGear() + 1
			if next > ud.Block().MaxGear {
				next = 1
			}
			ud.Configure(next)
		}
	})
}

// handleKey returns false when the user asked to quit
func (l *loop) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			l.paused = !l.paused
		case 'g':
			l.cycleGears()
		case '.':
			if l.paused {
				l.step()
			}
		}
	}
	return true
}

// drawRanges outlines projector coverage while paused
func (l *loop) drawRanges(c render.Canvas) {
	if !l.paused {
		return
	}
	l.world.Each(func(b world.Building) {
		if ud, ok := b.(*blocks.UnderdriveBuild); ok {
			style := render.Styled(render.RgbIdleGray)
			render.DashCircle(c, ud.Pos().X(), ud.Pos().Y(), ud.RealRange(), 0, style)
		}
	})
}

func (l *loop) drawHUD(c render.Canvas) {
	_, h := c.Size()
	m := l.world.Status().Snapshot()
	line := fmt.Sprintf(" tick %d | %.0f blocks | %.0f links %.0f refused | %.1f sent | %.0f transitions",
		l.world.Tick(), m[status.WorldBuildings], m[status.StreamLinks], m[status.StreamRejected],
		m[status.StreamDelivered], m[status.AnimTransitions])
	if l.paused {
		line += " [paused]"
	}
	render.Text(c, 0, h-2, line, render.Styled(render.RgbStatusText))
	render.Text(c, 0, h-1, " space pause  . step  g gear  q quit", render.Styled(render.RgbIdleGray))
}

// runInteractive drives the loop against a terminal screen until quit or ctx ends
func runInteractive(ctx context.Context, l *loop) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer func() {
		r := recover()
		screen.Fini()
		if r != nil {
			crashReport("CYBERIO", r)
		}
	}()

	frame := render.NewFrame(screen)
	frame.Register(l.world.Draw, render.PriorityWorld)
	frame.Register(l.drawRanges, render.PriorityOverlay)
	frame.Register(l.drawHUD, render.PriorityUI)

	events := make(chan tcell.Event, 64)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				screen.Fini()
				crashReport("EVENT POLLER", r)
			}
		}()
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(l.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !l.handleKey(ev) {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			if !l.paused {
				l.step()
			}
			frame.Render()
		}
	}
}
