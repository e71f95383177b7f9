// Command solvetest solves a board spec read from a JSON file and prints
// the search outcome.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"puzzle-scan/internal/puzzle"
	"puzzle-scan/internal/solver"
)

func main() {
	specPath := flag.String("spec", "", "Path to a board spec JSON file")
	flag.Parse()

	if *specPath == "" {
		fmt.Println("Usage: solvetest -spec <board.json>")
		os.Exit(1)
	}

	data, err := os.ReadFile(*specPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read spec: %v\n", err)
		os.Exit(1)
	}
	var spec puzzle.Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse spec: %v\n", err)
		os.Exit(1)
	}
	if err := spec.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid spec: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Board %dx%d, %d pieces, colors %v\n", spec.Rows, spec.Cols, len(spec.Pieces), spec.Colors)
	fmt.Printf("\nBefore:\n%s\n", spec.Grid)

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

	fmt.Printf("\nPieces:\n")
	for _, p := range spec.Pieces {
		fmt.Printf("  %d: %s %dx%d %s\n",
			p.ID, p.Color, p.Shape.Rows, p.Shape.Cols,
			strings.ReplaceAll(p.Shape.String(), "\n", "/"))
	}

	var solved *puzzle.Grid
	res := solver.Solve(&spec, solver.Options{Trace: func(g *puzzle.Grid) { solved = g.Clone() }})

	if !res.Solved {
		fmt.Printf("\nNo solution (%d nodes, %d pruned)\n", res.Nodes, res.Prunes)
		return
	}

	fmt.Printf("\nSolved in %d nodes (%d pruned)\n", res.Nodes, res.Prunes)
	fmt.Printf("\n%-6s %6s %6s %6s\n", "Piece", "Row", "Col", "Rot")
	fmt.Println(strings.Repeat("-", 28))
	for _, pl := range res.Placements {
		fmt.Printf("%-6d %6d %6d %6d\n", pl.Piece, pl.Row, pl.Col, pl.Rotation)
	}
	if solved == nil {
		solved = spec.Grid
	}
	fmt.Printf("\nAfter:\n%s\n", solved)
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
