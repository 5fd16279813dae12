package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/cw-outputs/audio"
	"github.com/lixenwraith/cw-outputs/morse"
	"github.com/lixenwraith/cw-outputs/outputs"
)

type Params struct {
	Text    []string `pos:"true" optional:"true" help:"Text to play. If none provided, reads lines from stdin."`
	Pattern string   `short:"p" optional:"true" help:"Play a raw pattern ('.', '-', ' ' or '/') instead of text."`
	WPM     int      `short:"w" help:"Words per minute (PARIS timing)." default:"15"`
	Tone    float64  `short:"t" help:"Sidetone frequency in Hz." default:"600"`
	Gain    float64  `short:"g" help:"Output gain, 0 to 1." default:"1.0"`
	Trace   bool     `help:"Print per-symbol dispatch timing." default:"false"`
	Quiet   bool     `short:"q" help:"Suppress the echoed pattern." default:"false"`
}

func main() {
	boa.CmdT[Params]{
		Use:   "cwplay",
		Short: "Play Morse code through the speakers",
		Long:  "Encode text (or a raw dot/dash pattern) and play it as timed sidetone pulses.",
		ParamEnrich: boa.ParamEnricherCombine(
			boa.ParamEnricherBool,
			boa.ParamEnricherName,
			boa.ParamEnricherShort,
		),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			run(params)
		},
	}.Run()
}

func run(params *Params) {
	level := slog.LevelInfo
	if params.Trace {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := audio.LoadConfig()
	cfg.ToneHz = params.Tone
	cfg.Gain = params.Gain

	eng := outputs.NewEngine(cfg, nil, nil, logger)
	if !eng.IsSupported() {
		fmt.Fprintln(os.Stderr, "cwplay: no audio output device available")
		os.Exit(1)
	}
	defer eng.Teardown()

	if params.Trace {
		eng.SetSymbolDispatchCallback(func(ev outputs.DispatchEvent) {
			if ev.Phase != outputs.PhaseActual {
				return
			}
			fmt.Fprintf(os.Stderr, "  #%d %s skew=%+.3fms elapsed=%.3fms\n",
				ev.Sequence, ev.Symbol, ev.StartSkewMs, ev.BatchElapsedMs)
		})
	}

	// 1200 ms per unit-WPM is the PARIS convention
	wpm := params.WPM
	if wpm <= 0 {
		wpm = 15
	}
	unitMs := 1200.0 / float64(wpm)

	eng.Warmup(params.Tone)

	if params.Pattern != "" {
		pattern, err := morse.ParsePattern(params.Pattern)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cwplay: %v\n", err)
			os.Exit(1)
		}
		play(eng, params, pattern, unitMs)
		return
	}

	if len(params.Text) > 0 {
		playText(eng, params, strings.Join(params.Text, " "), unitMs)
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		playText(eng, params, scanner.Text(), unitMs)
	}
}

func playText(eng *outputs.Engine, params *Params, text string, unitMs float64) {
	pattern := morse.Encode(text)
	if len(pattern) == 0 {
		return
	}
	if !params.Quiet {
		fmt.Println(pattern.String())
	}
	play(eng, params, pattern, unitMs)
}

func play(eng *outputs.Engine, params *Params, pattern morse.Pattern, unitMs float64) {
	eng.PlayMorse(outputs.PlaybackRequest{
		Pattern: pattern,
		ToneHz:  params.Tone,
		UnitMs:  unitMs,
		Gain:    params.Gain,
	})
	for eng.Running() {
		time.Sleep(10 * time.Millisecond)
	}
}
