package scene

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// TextPadding is added around the measured text extent on every side.
const TextPadding = 4.0

// MaxTextLineWidth is the wrap width in world units.
const MaxTextLineWidth = 480.0

// textLayout caches the wrapped lines and measured extent of a Text object.
type textLayout struct {
	lines []string
	w, h  float64
}

// face7x13 is the measurement face. World-space sizes are derived by
// scaling its fixed 13px metrics to the object's font size.
var face7x13 = basicfont.Face7x13

// Layout returns the wrapped lines and the measured width/height of the
// text content, computing and caching them on first use. Callers that
// mutate Content, FontSize, Bold or Italic must call InvalidateLayout.
func (t *Text) Layout() (lines []string, w, h float64) {
	if t.layout == nil {
		t.layout = computeLayout(t)
	}
	return t.layout.lines, t.layout.w, t.layout.h
}

// InvalidateLayout drops the cached wrap/measure state.
func (t *Text) InvalidateLayout() {
	t.layout = nil
}

func computeLayout(t *Text) *textLayout {
	size := t.FontSize
	if size <= 0 {
		size = 16
	}
	scale := size / float64(face7x13.Metrics().Height.Ceil())
	if t.Bold {
		// The bold face is slightly wider; approximate with a 5% pad.
		scale *= 1.05
	}

	maxAdvance := MaxTextLineWidth / scale

	var lines []string
	for _, para := range strings.Split(t.Content, "\n") {
		lines = append(lines, wrapLine(para, maxAdvance)...)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}

	var widest float64
	for _, ln := range lines {
		if adv := measure(ln); adv > widest {
			widest = adv
		}
	}

	lineHeight := float64(face7x13.Metrics().Height.Ceil()) * scale
	return &textLayout{
		lines: lines,
		w:     widest * scale,
		h:     lineHeight * float64(len(lines)),
	}
}

// wrapLine greedily breaks a paragraph at word boundaries so each line's
// advance stays within maxAdvance. A single over-long word is kept whole.
func wrapLine(para string, maxAdvance float64) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{para}
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if measure(candidate) > maxAdvance {
			lines = append(lines, current)
			current = word
		} else {
			current = candidate
		}
	}
	return append(lines, current)
}

func measure(s string) float64 {
	return float64(font.MeasureString(face7x13, s).Ceil())
}
