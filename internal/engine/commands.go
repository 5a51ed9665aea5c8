package engine

import (
	"encoding/json"
	"sort"

	"github.com/basu-10/MioHub-sub000/internal/scene"
)

// DrawCommand is a single drawing operation for the frontend to execute on
// a Canvas2D context. The render loop compiles one buffer per frame from
// the current page, the in-progress stroke and the selection chrome.
type DrawCommand struct {
	Op        string           `json:"op"` // "grid", "stroke", "image", "text", "shape", "selection", "handle"
	ObjectID  int              `json:"objectId,omitempty"`
	Rect      *scene.Rect      `json:"rect,omitempty"`
	Points    []scene.Point    `json:"points,omitempty"`
	Lines     []string         `json:"lines,omitempty"`
	Start     *scene.Point     `json:"start,omitempty"`
	End       *scene.Point     `json:"end,omitempty"`
	Form      scene.ShapeForm  `json:"form,omitempty"`
	Tool      scene.StrokeTool `json:"tool,omitempty"`
	Handle    HandleKind       `json:"handle,omitempty"`
	Source    string           `json:"source,omitempty"`
	Color     string           `json:"color,omitempty"`
	Width     float64          `json:"width,omitempty"`
	Opacity   float64          `json:"opacity,omitempty"`
	FontSize  float64          `json:"fontSize,omitempty"`
	Bold      bool             `json:"bold,omitempty"`
	Italic    bool             `json:"italic,omitempty"`
	Step      float64          `json:"step,omitempty"`
	Transform []float64        `json:"transform,omitempty"` // [a, b, c, d, e, f] affine matrix
}

// CompileDrawCommands generates the frame's command buffer in painter's
// order (back to front, (layer, id) ascending), followed by the pending
// stroke and the selection chrome on top.
func CompileDrawCommands(e *Editor) []DrawCommand {
	commands := []DrawCommand{{Op: "grid", Step: e.Viewport().GridStep()}}

	objects := make([]scene.Object, len(e.Objects()))
	copy(objects, e.Objects())
	sort.SliceStable(objects, func(i, j int) bool {
		a, b := objects[i].Common(), objects[j].Common()
		if a.Layer != b.Layer {
			return a.Layer < b.Layer
		}
		return a.ID < b.ID
	})

	for _, o := range objects {
		commands = append(commands, compileObject(o))
	}

	if p := e.Pending(); p != nil && len(p.Points) > 0 {
		commands = append(commands, DrawCommand{
			Op:      "stroke",
			Points:  p.Points,
			Tool:    p.Tool,
			Color:   p.Color,
			Width:   p.Width,
			Opacity: p.Opacity,
		})
	}

	commands = append(commands, compileSelection(e.Selection())...)
	return commands
}

func compileObject(o scene.Object) DrawCommand {
	switch v := o.(type) {
	case *scene.Stroke:
		return DrawCommand{
			Op:       "stroke",
			ObjectID: v.Meta.ID,
			Points:   v.Points,
			Tool:     v.Tool,
			Color:    v.Color,
			Width:    v.Width,
			Opacity:  v.Opacity,
		}
	case *scene.Image:
		r := scene.Rect{X: v.X, Y: v.Y, W: v.W, H: v.H}
		c := r.Center()
		return DrawCommand{
			Op:        "image",
			ObjectID:  v.Meta.ID,
			Rect:      &r,
			Source:    v.Source,
			Transform: objectTransform(c, v.Rotation, v.FlipH, v.FlipV),
		}
	case *scene.Text:
		lines, w, h := v.Layout()
		r := scene.Rect{X: v.X, Y: v.Y, W: w, H: h}
		return DrawCommand{
			Op:       "text",
			ObjectID: v.Meta.ID,
			Rect:     &r,
			Lines:    lines,
			Color:    v.Color,
			FontSize: v.FontSize,
			Bold:     v.Bold,
			Italic:   v.Italic,
		}
	case *scene.Shape:
		r := scene.Rect{X: v.X, Y: v.Y, W: v.W, H: v.H}
		c := r.Center()
		return DrawCommand{
			Op:        "shape",
			ObjectID:  v.Meta.ID,
			Rect:      &r,
			Form:      v.Form,
			Start:     v.Start,
			End:       v.End,
			Color:     v.Color,
			Width:     v.Width,
			Transform: objectTransform(c, v.Rotation, v.FlipH, v.FlipV),
		}
	default:
		return DrawCommand{}
	}
}

// objectTransform builds the object's draw transform, or nil when the
// object is unrotated and unflipped so the command stays compact.
func objectTransform(c scene.Point, rotation float64, flipH, flipV bool) []float64 {
	m := AboutCenter(c.X, c.Y, rotation, flipH, flipV)
	if m.IsIdentity() {
		return nil
	}
	return m.ToSlice()
}

func compileSelection(s *Selection) []DrawCommand {
	if s.Len() == 0 {
		return nil
	}

	box := s.Bounds()
	commands := []DrawCommand{{Op: "selection", Rect: &box}}

	// Stable handle order keeps frontends from flickering between frames.
	for _, kind := range []HandleKind{HandleMove, HandleRotate, HandleMirror} {
		if r, ok := s.Handles()[kind]; ok {
			box := r
			commands = append(commands, DrawCommand{Op: "handle", Handle: kind, Rect: &box})
		}
	}
	return commands
}

// DrawCommandsToJSON serializes a command buffer for the frontend.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
