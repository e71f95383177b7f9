package detect

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"gocv.io/x/gocv"

	"puzzle-scan/internal/imaging"
	"puzzle-scan/internal/puzzle"
	"puzzle-scan/pkg/geometry"
)

// Network class indices. The model is trained with the four region classes
// first, then the three cell classes.
const (
	classGrid = iota
	classRowStrip
	classColStrip
	classPiecePanel
	classCellEmpty
	classCellObstacle
	classCellOccupied
	numClasses
)

// ONNXParams controls the network adapter.
type ONNXParams struct {
	InputSize  int     `json:"input_size"`  // square network input edge in pixels
	ScoreMin   float32 `json:"score_min"`   // confidence floor for candidates
	NMSOverlap float32 `json:"nms_overlap"` // IoU threshold for suppression
}

// DefaultONNXParams returns the adapter defaults.
func DefaultONNXParams() ONNXParams {
	return ONNXParams{
		InputSize:  640,  // export size of the detection model
		ScoreMin:   0.25, // drop weak candidates before suppression
		NMSOverlap: 0.45,
	}
}

// ONNXDetector runs a YOLO-style ONNX network through the OpenCV DNN module.
type ONNXDetector struct {
	net    gocv.Net
	params ONNXParams
}

// NewONNX loads the model file. The caller owns the detector and must Close
// it when done.
func NewONNX(modelPath string, p ONNXParams) (*ONNXDetector, error) {
	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return nil, fmt.Errorf("load model %s: empty network", modelPath)
	}
	return &ONNXDetector{net: net, params: p}, nil
}

// Close releases the network.
func (d *ONNXDetector) Close() error {
	return d.net.Close()
}

// Detect runs one frame through the network and splits the output into
// region boxes and cell detections.
func (d *ONNXDetector) Detect(buf *imaging.Buffer) (Regions, []puzzle.CellDetection, error) {
	if buf == nil || buf.W == 0 || buf.H == 0 {
		return Regions{}, nil, fmt.Errorf("empty frame")
	}

	mat, err := bufferToMat(buf)
	if err != nil {
		return Regions{}, nil, fmt.Errorf("convert frame: %w", err)
	}
	defer mat.Close()

	edge := d.params.InputSize
	scale, padX, padY := letterboxGeometry(buf.W, buf.H, edge)
	boxed := letterbox(mat, edge, scale, padX, padY)
	defer boxed.Close()

	blob := gocv.BlobFromImage(boxed, 1.0/255.0, image.Pt(edge, edge), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	out := d.net.Forward("")
	defer out.Close()

	data, err := out.DataPtrFloat32()
	if err != nil {
		return Regions{}, nil, fmt.Errorf("read network output: %w", err)
	}
	cands, err := decodeCandidates(data, scale, padX, padY, buf.Bounds(), d.params.ScoreMin)
	if err != nil {
		return Regions{}, nil, err
	}

	kept := suppress(cands, d.params.ScoreMin, d.params.NMSOverlap)
	fmt.Printf("Detector: %d candidates above %.2f, %d kept after suppression\n",
		len(cands), d.params.ScoreMin, len(kept))

	regions, dets := assemble(kept)
	return regions, dets, nil
}

type candidate struct {
	box   geometry.Box
	score float32
	class int
}

// decodeCandidates converts raw YOLO output rows back to source-image boxes.
// Each row is cx, cy, w, h, objectness, then one score per class, all at
// network input scale.
func decodeCandidates(data []float32, scale float64, padX, padY int, bounds geometry.Box, scoreMin float32) ([]candidate, error) {
	stride := 5 + numClasses
	if len(data)%stride != 0 {
		return nil, fmt.Errorf("output length %d is not a multiple of %d", len(data), stride)
	}

	var out []candidate
	for i := 0; i+stride <= len(data); i += stride {
		obj := data[i+4]
		if obj < scoreMin {
			continue
		}
		best, bestScore := -1, float32(0)
		for c := 0; c < numClasses; c++ {
			if s := data[i+5+c]; s > bestScore {
				best, bestScore = c, s
			}
		}
		score := obj * bestScore
		if best < 0 || score < scoreMin {
			continue
		}

		cx, cy := float64(data[i+0]), float64(data[i+1])
		w, h := float64(data[i+2]), float64(data[i+3])
		box := geometry.Box{
			X1: int((cx-w/2-float64(padX))/scale + 0.5),
			Y1: int((cy-h/2-float64(padY))/scale + 0.5),
			X2: int((cx+w/2-float64(padX))/scale + 0.5),
			Y2: int((cy+h/2-float64(padY))/scale + 0.5),
		}
		box = box.Clamp(bounds)
		if !box.Valid() {
			continue
		}
		out = append(out, candidate{box: box, score: score, class: best})
	}
	return out, nil
}

// suppress runs per-class non-maximum suppression and returns the survivors
// in raster order.
func suppress(cands []candidate, scoreMin, overlap float32) []candidate {
	var kept []candidate
	for class := 0; class < numClasses; class++ {
		var rects []image.Rectangle
		var scores []float32
		var members []candidate
		for _, c := range cands {
			if c.class != class {
				continue
			}
			rects = append(rects, image.Rect(c.box.X1, c.box.Y1, c.box.X2, c.box.Y2))
			scores = append(scores, c.score)
			members = append(members, c)
		}
		if len(members) == 0 {
			continue
		}

		indices := make([]int, len(members))
		for i := range indices {
			indices[i] = -1
		}
		gocv.NMSBoxes(rects, scores, scoreMin, overlap, indices)
		for _, idx := range indices {
			if idx < 0 || idx >= len(members) {
				break
			}
			kept = append(kept, members[idx])
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].box.Y1 != kept[j].box.Y1 {
			return kept[i].box.Y1 < kept[j].box.Y1
		}
		if kept[i].box.X1 != kept[j].box.X1 {
			return kept[i].box.X1 < kept[j].box.X1
		}
		return kept[i].class < kept[j].class
	})
	return kept
}

// assemble keeps the best box per region class and collects the cell hits.
func assemble(kept []candidate) (Regions, []puzzle.CellDetection) {
	var regions Regions
	var best [classPiecePanel + 1]float32
	var dets []puzzle.CellDetection
	for _, c := range kept {
		if label, ok := cellLabel(c.class); ok {
			dets = append(dets, puzzle.CellDetection{
				Box:        c.box,
				Label:      label,
				Confidence: float64(c.score),
			})
			continue
		}
		if c.score <= best[c.class] {
			continue
		}
		best[c.class] = c.score
		box := c.box
		switch c.class {
		case classGrid:
			regions.Grid = &box
		case classRowStrip:
			regions.RowStrip = &box
		case classColStrip:
			regions.ColStrip = &box
		case classPiecePanel:
			regions.PiecePanel = &box
		}
	}
	return regions, dets
}

func cellLabel(class int) (puzzle.CellLabel, bool) {
	switch class {
	case classCellEmpty:
		return puzzle.LabelEmpty, true
	case classCellObstacle:
		return puzzle.LabelObstacle, true
	case classCellOccupied:
		return puzzle.LabelOccupied, true
	}
	return 0, false
}

// letterboxGeometry fits (w, h) into a square of the given edge, preserving
// aspect. Padding is split evenly per axis.
func letterboxGeometry(w, h, edge int) (scale float64, padX, padY int) {
	scale = min(float64(edge)/float64(w), float64(edge)/float64(h))
	scaledW := int(float64(w)*scale + 0.5)
	scaledH := int(float64(h)*scale + 0.5)
	return scale, (edge - scaledW) / 2, (edge - scaledH) / 2
}

// letterbox resizes the frame into the padded square the network expects.
func letterbox(mat gocv.Mat, edge int, scale float64, padX, padY int) gocv.Mat {
	scaledW := int(float64(mat.Cols())*scale + 0.5)
	scaledH := int(float64(mat.Rows())*scale + 0.5)

	resized := gocv.NewMat()
	gocv.Resize(mat, &resized, image.Pt(scaledW, scaledH), 0, 0, gocv.InterpolationLinear)
	defer resized.Close()

	out := gocv.NewMat()
	gocv.CopyMakeBorder(resized, &out, padY, edge-scaledH-padY, padX, edge-scaledW-padX,
		gocv.BorderConstant, color.RGBA{R: 114, G: 114, B: 114})
	return out
}

// bufferToMat copies the RGBA buffer into a BGR Mat.
func bufferToMat(buf *imaging.Buffer) (gocv.Mat, error) {
	mat, err := gocv.NewMatFromBytes(buf.H, buf.W, gocv.MatTypeCV8UC4, buf.Pix)
	if err != nil {
		return gocv.Mat{}, err
	}
	bgr := gocv.NewMat()
	gocv.CvtColor(mat, &bgr, gocv.ColorRGBAToBGR)
	mat.Close()
	return bgr, nil
}
