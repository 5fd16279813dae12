package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/cw-outputs/audio"
	"github.com/lixenwraith/cw-outputs/morse"
	"github.com/lixenwraith/cw-outputs/outputs"
)

// Terminal host for the output engine. The screen itself plays the
// flash overlay: symbol flashes invert the whole screen, the torch and
// haptic channels render as indicator cells, and the telemetry queue
// scrolls at the bottom.
func main() {
	logFile, _ := os.OpenFile("cw-console.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	logSink := os.Stderr
	if logFile != nil {
		defer logFile.Close()
		logSink = logFile
	}
	logger := slog.New(slog.NewTextHandler(logSink, &slog.HandlerOptions{Level: slog.LevelDebug}))

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cw-console: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "cw-console: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	act := newScreenActuator(screen)
	eng := outputs.NewEngine(audio.LoadConfig(), nil, act, logger)
	defer eng.Teardown()

	ui := &console{
		screen: screen,
		act:    act,
		eng:    eng,
		events: make([]string, 0, eventLogCap),
	}
	eng.SetSymbolDispatchCallback(ui.onDispatch)
	eng.Warmup(0)

	ui.run()
}

const eventLogCap = 8

type console struct {
	screen tcell.Screen
	act    *screenActuator
	eng    *outputs.Engine

	input  []rune
	keyed  bool
	events []string
}

// onDispatch runs on the worker goroutine: record the line, wake the
// UI loop, return
func (c *console) onDispatch(ev outputs.DispatchEvent) {
	if ev.Phase != outputs.PhaseActual {
		return
	}
	line := fmt.Sprintf("#%d %-5s skew %+7.3f ms  elapsed %8.3f ms",
		ev.Sequence, ev.Symbol, ev.StartSkewMs, ev.BatchElapsedMs)
	c.act.postNote(line)
}

func (c *console) run() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	go func() {
		for range ticker.C {
			c.screen.PostEvent(tcell.NewEventInterrupt(nil))
		}
	}()

	for {
		c.drainNotes()
		c.draw()

		switch ev := c.screen.PollEvent().(type) {
		case *tcell.EventResize:
			c.screen.Sync()

		case *tcell.EventInterrupt:
			// periodic redraw tick

		case *tcell.EventKey:
			if !c.handleKey(ev) {
				return
			}
		}
	}
}

// handleKey returns false when the app should exit
func (c *console) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false

	case tcell.KeyEnter:
		text := strings.TrimSpace(string(c.input))
		c.input = c.input[:0]
		if text != "" {
			c.play(morse.Encode(text))
		}

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(c.input) > 0 {
			c.input = c.input[:len(c.input)-1]
		}

	case tcell.KeyCtrlK:
		// toggle a manually keyed tone
		if c.keyed {
			c.eng.StopTone()
		} else {
			c.eng.StartTone(outputs.ToneOptions{ToneHz: 600, Gain: 1.0})
		}
		c.keyed = !c.keyed

	case tcell.KeyCtrlX:
		c.eng.StopTone()
		c.keyed = false

	case tcell.KeyRune:
		c.input = append(c.input, ev.Rune())
	}
	return true
}

func (c *console) play(pattern morse.Pattern) {
	if len(pattern) == 0 {
		return
	}
	c.eng.PlayMorse(outputs.PlaybackRequest{
		Pattern:        pattern,
		ToneHz:         600,
		UnitMs:         80,
		Gain:           1.0,
		FlashEnabled:   true,
		HapticsEnabled: true,
	})
}

func (c *console) drainNotes() {
	for {
		line, ok := c.act.takeNote()
		if !ok {
			return
		}
		if len(c.events) >= eventLogCap {
			copy(c.events, c.events[1:])
			c.events = c.events[:eventLogCap-1]
		}
		c.events = append(c.events, line)
	}
}

func (c *console) draw() {
	w, h := c.screen.Size()

	bg := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	if c.act.overlayOn() {
		lum := int32(255 * c.act.overlayBrightness() / 100)
		bg = tcell.StyleDefault.
			Background(tcell.NewRGBColor(lum, lum, lum)).
			Foreground(tcell.ColorBlack)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c.screen.SetContent(x, y, ' ', nil, bg)
		}
	}

	drawText(c.screen, 1, 0, bg.Bold(true),
		"cw-console   type text + Enter to send   Ctrl+K key tone   Ctrl+X stop   Esc quit")
	drawText(c.screen, 1, 2, bg, "> "+string(c.input))

	status := fmt.Sprintf("running: %-5v  keyed: %-5v  haptic: %-5v  %s",
		c.eng.Running(), c.keyed, c.act.hapticOn(), c.eng.OverlayDebugString())
	drawText(c.screen, 1, 4, bg, status)

	for i, line := range c.events {
		drawText(c.screen, 1, 6+i, bg, line)
	}

	if h > 1 {
		drawText(c.screen, 1, h-1, bg.Dim(true), c.eng.ScheduleJSON())
	}
	c.screen.Show()
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	w, _ := s.Size()
	for _, r := range text {
		if x >= w {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
