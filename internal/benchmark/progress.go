package benchmark

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/progress"
)

const (
	progressWidth = 40
	maxLabelRunes = 32
)

// progressLine redraws a single status line after every request. A nil progressLine
// draws nothing.
type progressLine struct {
	w     io.Writer
	bar   progress.Model
	total int
	done  int
}

func newProgressLine(w io.Writer) *progressLine {
	return &progressLine{
		w:   w,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(progressWidth)),
	}
}

func (p *progressLine) start(total int) {
	if p == nil {
		return
	}
	p.total = total
	p.done = 0
	p.draw("")
}

func (p *progressLine) step(model string) {
	if p == nil {
		return
	}
	if p.done < p.total {
		p.done++
	}
	p.draw(model)
}

func (p *progressLine) finish() {
	if p == nil {
		return
	}
	fmt.Fprintln(p.w)
}

func (p *progressLine) percent() float64 {
	if p.total <= 0 {
		return 0
	}
	return float64(p.done) / float64(p.total)
}

func (p *progressLine) draw(model string) {
	fmt.Fprintf(p.w, "\r%s %d/%d %s\x1b[K", p.bar.ViewAs(p.percent()), p.done, p.total, truncateRunes(model, maxLabelRunes))
}

// truncateRunes shortens text to maxRunes, appending an ellipsis if truncated.
func truncateRunes(text string, maxRunes int) string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes]) + "…"
}
