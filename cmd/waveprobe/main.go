// ABOUTME: Entry point for the waveprobe inspection tool
// ABOUTME: Decodes an audio file and prints format info and a peak outline
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/waveplay/waveplay-go/pkg/audio"
	"github.com/waveplay/waveplay-go/pkg/audio/decode"
)

// peakRunes maps a normalized peak to a display column
var peakRunes = []rune(" ▁▂▃▄▅▆▇█")

var (
	buckets = flag.Int("buckets", 72, "Number of peak columns to print")
	quiet   = flag.Bool("quiet", false, "Skip the peak outline")
)

func main() {
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: waveprobe [flags] <file>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	src := flag.Arg(0)
	asset, err := decode.File(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "waveprobe: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("File:        %s\n", src)
	fmt.Printf("Codec:       %s\n", asset.Format.Codec)
	fmt.Printf("Sample rate: %d Hz\n", asset.Format.SampleRate)
	fmt.Printf("Channels:    %d\n", asset.Format.Channels)
	fmt.Printf("Frames:      %d\n", asset.Frames())
	fmt.Printf("Duration:    %s\n", formatDuration(asset.Duration()))

	if *quiet {
		return
	}

	fmt.Println()
	fmt.Println(outline(asset, *buckets))
}

// outline renders the asset's peak envelope as a single line of
// block characters
func outline(asset *audio.Asset, buckets int) string {
	peaks := audio.Peaks(asset, buckets)
	out := make([]rune, len(peaks))
	for i, p := range peaks {
		idx := int(p * float64(len(peakRunes)-1))
		if idx >= len(peakRunes) {
			idx = len(peakRunes) - 1
		}
		out[i] = peakRunes[idx]
	}
	return string(out)
}

func formatDuration(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d (%.3fs)", total/60, total%60, seconds)
}
