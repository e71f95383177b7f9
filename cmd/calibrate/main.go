// Command calibrate produces and refines palette calibration files.
//
// Without a sample it writes the current calibration for hand-tuning. With
// -image, -box and -color it samples the region's HSV distribution and
// replaces that color's strict range.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"puzzle-scan/internal/imaging"
	"puzzle-scan/internal/palette"
	"puzzle-scan/internal/puzzle"
	"puzzle-scan/pkg/geometry"

	"gonum.org/v1/gonum/stat"
)

var (
	flagIn    = flag.String("in", "", "Existing calibration to start from, defaults when empty")
	flagOut   = flag.String("out", "calibration.json", "Where to write the calibration")
	flagImage = flag.String("image", "", "Screenshot to sample from")
	flagBox   = flag.String("box", "", "Sample region as x1,y1,x2,y2")
	flagColor = flag.String("color", "", "Color shown in the region: orange, yellow, green or blue")
)

func main() {
	flag.Parse()

	params := palette.DefaultParams()
	if *flagIn != "" {
		var err error
		params, err = palette.LoadParams(*flagIn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load calibration: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Starting from %s\n", *flagIn)
	}

	if *flagImage != "" {
		if *flagBox == "" || *flagColor == "" {
			fmt.Println("Usage: calibrate [-in cal.json] [-out cal.json] [-image shot.png -box x1,y1,x2,y2 -color orange]")
			flag.PrintDefaults()
			os.Exit(1)
		}

		col, err := parseColor(*flagColor)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		box, err := parseBox(*flagBox)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Bad -box: %v\n", err)
			os.Exit(1)
		}
		buf, err := imaging.Load(*flagImage)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Loaded image: %dx%d pixels\n", buf.W, buf.H)

		box = box.Clamp(buf.Bounds())
		if !box.Valid() {
			fmt.Fprintf(os.Stderr, "Sample box lies outside the image\n")
			os.Exit(1)
		}

		r, n := sampleRange(buf, box)
		if n == 0 {
			fmt.Fprintf(os.Stderr, "No saturated pixels in the sample box\n")
			os.Exit(1)
		}
		fmt.Printf("\nSampled %d pixels for %s:\n", n, col)
		fmt.Printf("  old: %s\n", rangeString(params.Ranges[col]))
		fmt.Printf("  new: %s\n", rangeString(r))
		params = params.WithRange(col, r)
	}

	if err := palette.SaveParams(*flagOut, params); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write calibration: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nWrote %s\n", *flagOut)
	printRanges(params)
}

// satFloor keeps the uncolored backdrop out of the hue statistics.
const satFloor = 30

// Quantile margins absorb anti-aliased edges without letting stray
// pixels stretch the range.
const (
	hueMargin = 2
	svMargin  = 15
)

// sampleRange derives a strict HSV range from the saturated pixels of the
// box, spanning the 2nd to 98th percentile plus margin. Saturation and
// value tops stay pinned at 255 like the stock ranges.
func sampleRange(buf *imaging.Buffer, box geometry.Box) (palette.Range, int) {
	var hs, ss, vs []float64
	for y := box.Y1; y < box.Y2; y++ {
		for x := box.X1; x < box.X2; x++ {
			h, s, v := buf.HSVAt(x, y)
			if s < satFloor {
				continue
			}
			hs = append(hs, float64(h))
			ss = append(ss, float64(s))
			vs = append(vs, float64(v))
		}
	}
	if len(hs) == 0 {
		return palette.Range{}, 0
	}
	sort.Float64s(hs)
	sort.Float64s(ss)
	sort.Float64s(vs)

	return palette.Range{
		HMin: clampHue(quantile(hs, 0.02) - hueMargin),
		HMax: clampHue(quantile(hs, 0.98) + hueMargin),
		SMin: clamp255(quantile(ss, 0.02) - svMargin),
		SMax: 255,
		VMin: clamp255(quantile(vs, 0.02) - svMargin),
		VMax: 255,
	}, len(hs)
}

func quantile(sorted []float64, q float64) float64 {
	return stat.Quantile(q, stat.Empirical, sorted, nil)
}

func clampHue(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 180 {
		return 180
	}
	return uint8(v)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func parseColor(name string) (puzzle.Color, error) {
	switch strings.ToLower(name) {
	case "orange":
		return puzzle.ColorOrange, nil
	case "yellow":
		return puzzle.ColorYellow, nil
	case "green":
		return puzzle.ColorGreen, nil
	case "blue":
		return puzzle.ColorBlue, nil
	}
	return puzzle.ColorNone, fmt.Errorf("unknown color %q (want orange, yellow, green or blue)", name)
}

func parseBox(spec string) (geometry.Box, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 4 {
		return geometry.Box{}, fmt.Errorf("want x1,y1,x2,y2, got %q", spec)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return geometry.Box{}, fmt.Errorf("bad coordinate %q", p)
		}
		vals[i] = v
	}
	return geometry.Box{X1: vals[0], Y1: vals[1], X2: vals[2], Y2: vals[3]}, nil
}

func printRanges(p palette.Params) {
	fmt.Printf("\nCalibration:\n")
	for _, c := range puzzle.AllColors() {
		fmt.Printf("  %-8s %s\n", c, rangeString(p.Ranges[c]))
	}
	fmt.Printf("  %-8s %s\n", "gray", rangeString(p.Gray))
	fmt.Printf("  relax: S-%d V-%d, split hue %d\n", p.RelaxSat, p.RelaxVal, p.SplitHue)
}

func rangeString(r palette.Range) string {
	return fmt.Sprintf("H(%d-%d) S(%d-%d) V(%d-%d)", r.HMin, r.HMax, r.SMin, r.SMax, r.VMin, r.VMax)
}
