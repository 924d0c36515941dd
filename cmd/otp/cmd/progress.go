package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/OpenTraceLab/OpenTracePlace/pkg/autoplace"
)

// progressLine shows placement progress on a single terminal line and asks
// the placer to stop once ctx is cancelled.
type progressLine struct {
	ctx   context.Context
	w     io.Writer
	title string
	max   int
	done  int
	width int
}

var _ autoplace.Reporter = (*progressLine)(nil)

func newProgressLine(ctx context.Context, w io.Writer) *progressLine {
	return &progressLine{ctx: ctx, w: w}
}

func (p *progressLine) Report(title string) {
	p.title = title
	p.draw()
}

func (p *progressLine) SetMaxProgress(n int) {
	p.max = n
	p.done = 0
	p.draw()
}

func (p *progressLine) AdvanceProgress() {
	p.done++
	p.draw()
}

func (p *progressLine) KeepRefreshing() bool {
	return p.ctx.Err() == nil
}

func (p *progressLine) draw() {
	if p.w == nil {
		return
	}
	counter := ""
	if p.max > 0 {
		counter = styleNumber.Render(fmt.Sprintf("[%d/%d]", p.done, p.max)) + " "
	}
	line := counter + styleDim.Render(p.title)
	p.clear()
	fmt.Fprint(p.w, "\r"+line)
	p.width = len(line)
}

// finish erases the progress line.
func (p *progressLine) finish() {
	if p.w == nil {
		return
	}
	p.clear()
	fmt.Fprint(p.w, "\r")
	p.width = 0
}

func (p *progressLine) clear() {
	if p.width > 0 {
		fmt.Fprint(p.w, "\r"+strings.Repeat(" ", p.width))
	}
}
