package scene

import (
	"encoding/json"
	"fmt"
)

// The persisted form of an object is flat: common fields alongside variant
// fields, discriminated by "type". Runtime-only state (decoded pixels,
// layout caches) never round-trips.

type strokeJSON struct {
	Type    Kind       `json:"type"`
	ID      int        `json:"id"`
	Layer   int        `json:"layer"`
	Points  []Point    `json:"points"`
	Tool    StrokeTool `json:"tool"`
	Color   string     `json:"color"`
	Width   float64    `json:"width"`
	Opacity float64    `json:"opacity"`
}

type imageJSON struct {
	Type     Kind    `json:"type"`
	ID       int     `json:"id"`
	Layer    int     `json:"layer"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	W        float64 `json:"w"`
	H        float64 `json:"h"`
	Rotation float64 `json:"rotation"`
	FlipH    bool    `json:"flipH,omitempty"`
	FlipV    bool    `json:"flipV,omitempty"`
	Source   string  `json:"source"`
}

type textJSON struct {
	Type     Kind    `json:"type"`
	ID       int     `json:"id"`
	Layer    int     `json:"layer"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Content  string  `json:"content"`
	FontSize float64 `json:"fontSize"`
	Color    string  `json:"color"`
	Bold     bool    `json:"bold,omitempty"`
	Italic   bool    `json:"italic,omitempty"`
}

type shapeJSON struct {
	Type     Kind      `json:"type"`
	ID       int       `json:"id"`
	Layer    int       `json:"layer"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	W        float64   `json:"w"`
	H        float64   `json:"h"`
	Rotation float64   `json:"rotation"`
	FlipH    bool      `json:"flipH,omitempty"`
	FlipV    bool      `json:"flipV,omitempty"`
	Form     ShapeForm `json:"form"`
	Start    *Point    `json:"start,omitempty"`
	End      *Point    `json:"end,omitempty"`
	Color    string    `json:"color"`
	Width    float64   `json:"width"`
}

// MarshalObject serializes an object with its "type" discriminant.
func MarshalObject(o Object) ([]byte, error) {
	switch v := o.(type) {
	case *Stroke:
		return json.Marshal(strokeJSON{
			Type: KindStroke, ID: v.Meta.ID, Layer: v.Meta.Layer,
			Points: v.Points, Tool: v.Tool, Color: v.Color,
			Width: v.Width, Opacity: v.Opacity,
		})
	case *Image:
		return json.Marshal(imageJSON{
			Type: KindImage, ID: v.Meta.ID, Layer: v.Meta.Layer,
			X: v.X, Y: v.Y, W: v.W, H: v.H, Rotation: v.Rotation,
			FlipH: v.FlipH, FlipV: v.FlipV, Source: v.Source,
		})
	case *Text:
		return json.Marshal(textJSON{
			Type: KindText, ID: v.Meta.ID, Layer: v.Meta.Layer,
			X: v.X, Y: v.Y, Content: v.Content, FontSize: v.FontSize,
			Color: v.Color, Bold: v.Bold, Italic: v.Italic,
		})
	case *Shape:
		return json.Marshal(shapeJSON{
			Type: KindShape, ID: v.Meta.ID, Layer: v.Meta.Layer,
			X: v.X, Y: v.Y, W: v.W, H: v.H, Rotation: v.Rotation,
			FlipH: v.FlipH, FlipV: v.FlipV, Form: v.Form,
			Start: v.Start, End: v.End, Color: v.Color, Width: v.Width,
		})
	default:
		return nil, fmt.Errorf("unknown object kind %T", o)
	}
}

// UnmarshalObject decodes a single object from its envelope form.
func UnmarshalObject(data []byte) (Object, error) {
	var probe struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("probe object type: %w", err)
	}

	switch probe.Type {
	case KindStroke:
		var v strokeJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &Stroke{
			Meta: Common{ID: v.ID, Layer: v.Layer}, Points: v.Points,
			Tool: v.Tool, Color: v.Color, Width: v.Width, Opacity: v.Opacity,
		}, nil
	case KindImage:
		var v imageJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &Image{
			Meta: Common{ID: v.ID, Layer: v.Layer},
			X:    v.X, Y: v.Y, W: v.W, H: v.H, Rotation: v.Rotation,
			FlipH: v.FlipH, FlipV: v.FlipV, Source: v.Source,
		}, nil
	case KindText:
		var v textJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &Text{
			Meta: Common{ID: v.ID, Layer: v.Layer},
			X:    v.X, Y: v.Y, Content: v.Content, FontSize: v.FontSize,
			Color: v.Color, Bold: v.Bold, Italic: v.Italic,
		}, nil
	case KindShape:
		var v shapeJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &Shape{
			Meta: Common{ID: v.ID, Layer: v.Layer},
			X:    v.X, Y: v.Y, W: v.W, H: v.H, Rotation: v.Rotation,
			FlipH: v.FlipH, FlipV: v.FlipV, Form: v.Form,
			Start: v.Start, End: v.End, Color: v.Color, Width: v.Width,
		}, nil
	default:
		return nil, fmt.Errorf("unknown object type %q", probe.Type)
	}
}

// MarshalObjects serializes a list of objects as a JSON array.
func MarshalObjects(objects []Object) ([]byte, error) {
	raw := make([]json.RawMessage, len(objects))
	for i, o := range objects {
		data, err := MarshalObject(o)
		if err != nil {
			return nil, err
		}
		raw[i] = data
	}
	return json.Marshal(raw)
}

// UnmarshalObjects decodes a JSON array of envelope-form objects.
func UnmarshalObjects(data []byte) ([]Object, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	objects := make([]Object, len(raw))
	for i, r := range raw {
		o, err := UnmarshalObject(r)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		objects[i] = o
	}
	return objects, nil
}
