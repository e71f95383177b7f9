// Command puzzlescan analyzes a puzzle screenshot and solves the board.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"puzzle-scan/internal/detect"
	"puzzle-scan/internal/glyph"
	"puzzle-scan/internal/imaging"
	"puzzle-scan/internal/ocr"
	"puzzle-scan/internal/palette"
	"puzzle-scan/internal/puzzle"
	"puzzle-scan/internal/render"
	"puzzle-scan/internal/scan"
	"puzzle-scan/internal/solver"
	"puzzle-scan/internal/strip"
	"puzzle-scan/internal/version"
	"puzzle-scan/pkg/geometry"
)

func main() {
	imagePath := flag.String("image", "", "Path to the screenshot (PNG, JPEG, BMP, or TIFF)")
	modelPath := flag.String("model", "", "Path to the ONNX region/cell detection model")
	calibPath := flag.String("calibration", "", "Path to a JSON palette calibration")
	ocrBackend := flag.String("ocr", "grid", "Digit recognizer: grid or tesseract")
	fontPath := flag.String("font", "", "TTF font for overlay piece labels")
	overlayPath := flag.String("overlay", "", "Write a solution overlay PNG to this path")
	showVersion := flag.Bool("version", false, "Print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("puzzlescan %s\n", version.String())
		return
	}

	if *imagePath == "" || *modelPath == "" {
		fmt.Println("Usage: puzzlescan -image <path> -model <net.onnx> [-calibration cal.json] [-ocr grid|tesseract] [-overlay out.png] [-font label.ttf]")
		os.Exit(1)
	}

	buf, err := imaging.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded image: %dx%d pixels\n", buf.W, buf.H)

	pal := palette.DefaultParams()
	if *calibPath != "" {
		pal, err = palette.LoadParams(*calibPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load calibration: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Calibration: %s\n", *calibPath)
	}

	rec, cleanup, err := newRecognizer(*ocrBackend)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start digit recognizer: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()
	fmt.Printf("Digit recognizer: %s\n", *ocrBackend)

	det, err := detect.NewONNX(*modelPath, detect.DefaultONNXParams())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load detection model: %v\n", err)
		os.Exit(1)
	}
	defer det.Close()

	fmt.Printf("\nAnalyzing...\n")
	capture, err := scan.New(det, rec, scan.DefaultParams().WithPalette(pal)).Analyze(buf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nDetected regions:\n")
	fmt.Printf("%-12s %8s %8s %8s %8s\n", "Region", "X1", "Y1", "X2", "Y2")
	fmt.Println(strings.Repeat("-", 48))
	printRegion("grid", capture.Regions.Grid)
	printRegion("row strip", capture.Regions.RowStrip)
	printRegion("col strip", capture.Regions.ColStrip)
	printRegion("piece panel", capture.Regions.PiecePanel)

	printStrip("Row constraints", capture.RowStrip)
	printStrip("Column constraints", capture.ColStrip)

	fmt.Printf("\nPieces (%d):\n", len(capture.Pieces))
	fmt.Printf("%-6s %-8s %-8s %6s  %s\n", "ID", "Color", "Size", "Cells", "Shape")
	fmt.Println(strings.Repeat("-", 48))
	for _, p := range capture.Pieces {
		fmt.Printf("%-6d %-8s %dx%-6d %6d  %s\n",
			p.ID, p.Color, p.Shape.Rows, p.Shape.Cols, p.Shape.Count(),
			strings.ReplaceAll(p.Shape.String(), "\n", "/"))
	}

	spec := capture.Spec
	if spec == nil {
		fmt.Fprintf(os.Stderr, "No board spec assembled\n")
		os.Exit(1)
	}
	if spec.Grid != nil {
		fmt.Printf("\nBoard %dx%d:\n%s\n", spec.Rows, spec.Cols, spec.Grid)
	}
	fmt.Printf("\n%-6s %-16s %-16s\n", "Line", "Row target", "Col target")
	fmt.Println(strings.Repeat("-", 40))
	for i := 0; i < max(spec.Rows, spec.Cols); i++ {
		row, col := "", ""
		if i < len(spec.RowTargets) {
			row = constraintString(spec.RowTargets[i])
		}
		if i < len(spec.ColTargets) {
			col = constraintString(spec.ColTargets[i])
		}
		fmt.Printf("%-6d %-16s %-16s\n", i, row, col)
	}

	if err := spec.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Assembled spec is not solvable as scanned: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nSolving...\n")
	var solved *puzzle.Grid
	res := solver.Solve(spec, solver.Options{Trace: func(g *puzzle.Grid) { solved = g.Clone() }})
	if res.Solved {
		fmt.Printf("\nSolved in %d nodes (%d pruned):\n", res.Nodes, res.Prunes)
		printPlacements(spec, res.Placements)
		// The last traced grid is the accepted full assignment; with no
		// pieces to place the board was already satisfied as scanned.
		if solved == nil {
			solved = spec.Grid
		}
		fmt.Printf("\n%s\n", solved)
	} else {
		fmt.Printf("\nNo solution (%d nodes, %d pruned)\n", res.Nodes, res.Prunes)
	}

	if *overlayPath != "" {
		opts := render.DefaultOptions()
		opts.FontPath = *fontPath
		if capture.Regions.Grid != nil {
			opts.GridBox = *capture.Regions.Grid
		}
		img, err := render.Overlay(buf, spec, res.Placements, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render overlay: %v\n", err)
			os.Exit(1)
		}
		if err := render.WritePNG(*overlayPath, img); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write overlay: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nOverlay written to %s\n", *overlayPath)
	}
}

// newRecognizer builds the selected digit backend. The cleanup func is
// always safe to call.
func newRecognizer(backend string) (glyph.Recognizer, func(), error) {
	switch backend {
	case "tesseract":
		eng, err := ocr.NewEngine()
		if err != nil {
			return nil, func() {}, err
		}
		return eng, func() { eng.Close() }, nil
	case "grid":
		return glyph.NewGridRecognizer(), func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("unknown backend %q (want grid or tesseract)", backend)
	}
}

func printRegion(name string, box *geometry.Box) {
	if box == nil {
		fmt.Printf("%-12s %8s\n", name, "-")
		return
	}
	fmt.Printf("%-12s %8d %8d %8d %8d\n", name, box.X1, box.Y1, box.X2, box.Y2)
}

func printStrip(title string, r strip.Result) {
	fmt.Printf("\n%s: mode=%s rotated=%v dual=%v colors=%v\n", title, r.Mode, r.Rotated, r.DualColor, r.Colors)
	for _, it := range r.Items {
		fmt.Printf("  line %d: %s = %d\n", it.Index, it.Color, it.Value)
	}
}

func printPlacements(spec *puzzle.Spec, sol puzzle.Solution) {
	byID := make(map[int]puzzle.Piece, len(spec.Pieces))
	for _, p := range spec.Pieces {
		byID[p.ID] = p
	}
	fmt.Printf("%-6s %-8s %6s %6s %6s\n", "Piece", "Color", "Row", "Col", "Rot")
	fmt.Println(strings.Repeat("-", 36))
	for _, pl := range sol {
		fmt.Printf("%-6d %-8s %6d %6d %6d\n", pl.Piece, byID[pl.Piece].Color, pl.Row, pl.Col, pl.Rotation)
	}
}

// constraintString formats one line's requirements in canonical color
// order, "-" when unconstrained.
func constraintString(c puzzle.Constraint) string {
	if len(c) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(c))
	for _, col := range puzzle.AllColors() {
		if v, ok := c[col]; ok {
			parts = append(parts, fmt.Sprintf("%c=%d", col.Letter(), v))
		}
	}
	return strings.Join(parts, " ")
}
