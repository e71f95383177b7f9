// Command striptest parses a pre-cropped constraint strip image and prints
// what the strip reader sees.
package main

import (
	"flag"
	"fmt"
	"os"

	"puzzle-scan/internal/glyph"
	"puzzle-scan/internal/imaging"
	"puzzle-scan/internal/ocr"
	"puzzle-scan/internal/strip"
)

func main() {
	imagePath := flag.String("image", "", "Path to the cropped strip image")
	ocrBackend := flag.String("ocr", "grid", "Digit recognizer: grid or tesseract")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: striptest -image <path> [-ocr grid|tesseract]")
		os.Exit(1)
	}

	buf, err := imaging.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded strip: %dx%d pixels\n", buf.W, buf.H)

	var rec glyph.Recognizer
	switch *ocrBackend {
	case "tesseract":
		eng, err := ocr.NewEngine()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start digit recognizer: %v\n", err)
			os.Exit(1)
		}
		defer eng.Close()
		rec = eng
	case "grid":
		rec = glyph.NewGridRecognizer()
	default:
		fmt.Fprintf(os.Stderr, "Unknown backend %q (want grid or tesseract)\n", *ocrBackend)
		os.Exit(1)
	}

	res := strip.Parse(buf, rec, strip.DefaultParams())

	fmt.Printf("\nMode: %s\n", res.Mode)
	fmt.Printf("Rotated: %v\n", res.Rotated)
	fmt.Printf("Dual color: %v\n", res.DualColor)
	fmt.Printf("Colors: %v\n", res.Colors)

	fmt.Printf("\nItems (%d):\n", len(res.Items))
	for _, it := range res.Items {
		fmt.Printf("  line %d: %s = %d\n", it.Index, it.Color, it.Value)
	}
}
