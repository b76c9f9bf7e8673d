// Command tonegen is a thin example program wiring the library together:
// parse a code-text or pulse-text file into a tone list, load a render spec
// from YAML, and write the resulting I/Q stream to a file. It exists to
// give the library an executable entry point, not as a general-purpose CLI.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/cwsl/tonegen/code"
	"github.com/cwsl/tonegen/pulse"
	"github.com/cwsl/tonegen/render"
	"github.com/cwsl/tonegen/specfile"
	"github.com/cwsl/tonegen/tone"
)

func main() {
	codeFile := flag.String("code", "", "path to a code-text file")
	pulseFile := flag.String("pulse", "", "path to a pulse-text file")
	specPath := flag.String("spec", "", "path to a YAML render spec")
	out := flag.String("out", "out.iq", "output file path")
	flag.Parse()

	if (*codeFile == "") == (*pulseFile == "") {
		log.Fatal("exactly one of -code or -pulse must be given")
	}
	if *specPath == "" {
		log.Fatal("-spec is required")
	}

	tones, err := loadTones(*codeFile, *pulseFile)
	if err != nil {
		log.Fatalf("tonegen: %v", err)
	}

	spec, err := specfile.LoadRenderSpec(*specPath)
	if err != nil {
		log.Fatalf("tonegen: %v", err)
	}

	sink, err := render.NewFileSink(*out)
	if err != nil {
		log.Fatalf("tonegen: %v", err)
	}
	defer sink.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := render.ToSink(ctx, *spec, tones, sink, nil)
	if err != nil {
		log.Fatalf("tonegen: render: %v", err)
	}
	log.Printf("wrote %d samples (%d us) to %s in %s", stats.TotalSamples, stats.TotalMicros, *out, stats.Elapsed)
}

func loadTones(codeFile, pulseFile string) (tone.List, error) {
	if codeFile != "" {
		data, err := os.ReadFile(codeFile)
		if err != nil {
			return nil, err
		}
		tones, _, err := code.Parse(string(data))
		return tones, err
	}

	data, err := os.ReadFile(pulseFile)
	if err != nil {
		return nil, err
	}
	return pulse.Parse(string(data))
}
