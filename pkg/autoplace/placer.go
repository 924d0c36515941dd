package autoplace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// DefaultKeepOut is the keep-out cost of a cell under a placed component.
const DefaultKeepOut = 500

// Status is the terminal state of a run.
type Status int

const (
	Completed Status = iota
	Cancelled
	Failed
)

func (s Status) String() string {
	switch s {
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result summarizes a run.
type Result struct {
	RunID       string
	Status      Status
	Placed      []string
	Unplaceable []string
	// Moved counts components whose position or orientation changed.
	Moved    int
	Duration time.Duration
}

// Option configures a Placer.
type Option func(*Placer)

// WithPitch sets the grid pitch in nanometres.
func WithPitch(nm int) Option {
	return func(p *Placer) { p.pitch = nm }
}

// WithOffboard also places unlocked components lying outside the board.
func WithOffboard(on bool) Option {
	return func(p *Placer) { p.offboard = on }
}

func WithKeepOut(cost int) Option {
	return func(p *Placer) { p.keepOut = cost }
}

func WithGain(gain int) Option {
	return func(p *Placer) { p.gain = gain }
}

// WithMaxCells caps the cells of each grid side.
func WithMaxCells(n int) Option {
	return func(p *Placer) { p.maxCells = n }
}

func WithLogger(l *log.Logger) Option {
	return func(p *Placer) { p.log = l }
}

func WithReporter(r Reporter) Option {
	return func(p *Placer) { p.reporter = r }
}

// WithConnectivity replaces the default Ratsnest.
func WithConnectivity(c Connectivity) Option {
	return func(p *Placer) { p.connectivity = c }
}

// WithRefresh sets a hook called with nil once the grid is built and then
// with every committed component.
func WithRefresh(fn func(*Component)) Option {
	return func(p *Placer) { p.refresh = fn }
}

// Placer runs automatic placement over one board. It owns the matrix and
// free areas of its runs; the board must not change underneath it.
type Placer struct {
	board *Board

	pitch    int
	offboard bool
	keepOut  int
	gain     int
	maxCells int

	log          *log.Logger
	reporter     Reporter
	connectivity Connectivity
	refresh      func(*Component)

	conn   Connectivity
	matrix *Matrix
	free   *FreeArea
	areas  *AreaBuilder
	eval   *Evaluator
}

func New(b *Board, opts ...Option) *Placer {
	p := &Placer{
		board:    b,
		pitch:    DefaultPitch,
		keepOut:  DefaultKeepOut,
		gain:     DefaultGain,
		maxCells: DefaultMaxCells,
		reporter: NopReporter{},
		refresh:  func(*Component) {},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = log.New(io.Discard)
	}
	if p.gain <= 0 {
		p.gain = DefaultGain
	}
	return p
}

// Pitch returns the grid pitch runs use: the configured pitch raised to
// MinPitch. A non-positive pitch is returned as is and fails Place.
func (p *Placer) Pitch() int {
	if p.pitch <= 0 {
		return p.pitch
	}
	return max(p.pitch, MinPitch)
}

// Matrix returns the grid of the last run, or nil.
func (p *Placer) Matrix() *Matrix { return p.matrix }

// FreeArea returns the free areas of the last run, or nil.
func (p *Placer) FreeArea() *FreeArea { return p.free }

// Place places the selected components, the components already flagged
// NeedsPlacement and, with WithOffboard, every unlocked component outside
// the board. Locked components never move.
//
// Bad board data fails the run with an error wrapping ErrFatalInput before
// any component changes. Cancellation through the context or the Reporter
// ends the run with status Cancelled and a nil error, keeping every commit
// made so far.
func (p *Placer) Place(ctx context.Context, selected []*Component) (*Result, error) {
	started := time.Now()
	res := &Result{RunID: uuid.NewString(), Status: Failed}
	defer func() { res.Duration = time.Since(started) }()

	logger := p.log.With("run", res.RunID)
	p.matrix, p.free, p.areas, p.eval = nil, nil, nil, nil

	if p.pitch <= 0 {
		return res, ErrInvalidPitch
	}

	m := NewMatrix(p.pitch, p.maxCells)
	if !m.ComputeSize(p.board.OutlineBounds()) {
		return res, ErrZeroAreaBoard
	}

	pending := p.collect(selected, m.Box())
	if len(pending) == 0 {
		logger.Debug("nothing to place")
		res.Status = Completed
		return res, nil
	}
	for _, c := range pending {
		if err := validateClasses(c); err != nil {
			return res, err
		}
	}

	if err := p.build(m); err != nil {
		return res, err
	}
	logger.Debug("grid ready",
		"cols", m.Cols(), "rows", m.Rows(), "pitch", m.Pitch(),
		"zone", m.CountCells(Bottom, ZoneAvailable))

	for _, c := range pending {
		c.NeedsPlacement = true
		c.Placed = false
		c.Unplaceable = false
	}
	for _, c := range p.board.Components {
		if !slices.Contains(pending, c) && c.Bounds().Intersects(m.Box()) {
			p.commit(c)
		}
	}

	p.conn = p.connectivity
	if p.conn == nil {
		p.conn = NewRatsnest(p.board)
	}
	work := newWorkList(pending)

	p.reporter.Report("Autoplacing components")
	p.reporter.SetMaxProgress(work.pending())
	p.refresh(nil)

	for {
		c := work.pick(p.conn)
		if c == nil {
			break
		}
		p.reporter.Report("Autoplacing " + c.Ref)

		if err := p.placeOne(ctx, c, res, logger); err != nil {
			if errors.Is(err, ErrAborted) {
				logger.Info("placement aborted", "ref", c.Ref)
				res.Status = Cancelled
				return res, nil
			}
			return res, err
		}

		if !p.reporter.KeepRefreshing() {
			logger.Info("placement cancelled", "placed", len(res.Placed))
			res.Status = Cancelled
			return res, nil
		}
	}

	res.Status = Completed
	logger.Info("placement done",
		"placed", len(res.Placed), "unplaceable", len(res.Unplaceable), "moved", res.Moved)
	return res, nil
}

// collect returns the unlocked components to place, in board order.
func (p *Placer) collect(selected []*Component, box Rect) []*Component {
	var out []*Component
	add := func(c *Component) {
		if c.Locked || slices.Contains(out, c) {
			return
		}
		out = append(out, c)
	}
	for _, c := range p.board.Components {
		switch {
		case c.NeedsPlacement, slices.Contains(selected, c):
			add(c)
		case p.offboard && !box.Contains(c.Position):
			add(c)
		}
	}
	return out
}

// build allocates and fills the grid and the free areas of a run.
func (p *Placer) build(m *Matrix) error {
	if err := m.Allocate(); err != nil {
		return err
	}
	if err := m.Rasterize(p.board.Outline); err != nil {
		m.Release()
		return fmt.Errorf("rasterize outline: %w", err)
	}
	for _, s := range p.board.Obstacles {
		m.TraceSegment(s.A, s.B, s.Width/2, Obstacle|BoardEdge, WriteCell, BothCopper)
	}

	p.matrix = m
	p.free = NewFreeArea(p.board.Outline)
	p.areas = NewAreaBuilder(m.Pitch())
	p.eval = NewEvaluator(m, p.board, p.gain)
	return nil
}

// placeOne searches the best position and orientation of c and commits it.
func (p *Placer) placeOne(ctx context.Context, c *Component, res *Result, logger *log.Logger) error {
	initPos, initOrient := c.Position, c.Orientation

	best, err := p.eval.BestPosition(ctx, c)
	if err != nil {
		return err
	}
	bestOrient := initOrient

	for _, t := range rotationTrials(c) {
		mult, err := Multiplier(t.class)
		if err != nil {
			return err
		}
		c.Orientation = (initOrient + t.delta).Normalize()
		cand, err := p.eval.BestPosition(ctx, c)
		c.Orientation = initOrient
		if err != nil {
			return err
		}
		cand.Cost *= mult
		if cand.Found && (!best.Found || cand.Cost < best.Cost) {
			best, bestOrient = cand, (initOrient + t.delta).Normalize()
		}
	}

	c.NeedsPlacement = false
	if !best.Found {
		c.Unplaceable = true
		res.Unplaceable = append(res.Unplaceable, c.Ref)
		logger.Warn("no free position", "ref", c.Ref)
		p.reporter.AdvanceProgress()
		return nil
	}

	c.Orientation = bestOrient
	c.Position = best.Position
	p.conn.Update(c)
	p.commit(c)
	c.Placed = true

	res.Placed = append(res.Placed, c.Ref)
	if c.Position != initPos || c.Orientation != initOrient {
		res.Moved++
	}
	logger.Debug("placed",
		"ref", c.Ref, "x", c.Position.X, "y", c.Position.Y,
		"orientation", c.Orientation.Degrees(), "cost", best.Cost)

	p.refresh(c)
	p.reporter.AdvanceProgress()
	return nil
}

// commit writes c into the grid: occupancy of its box and pads, keep-out
// cost around it, and its courtyard out of the free areas.
func (p *Placer) commit(c *Component) {
	m := p.matrix
	half := m.Pitch() / 2
	side := LayersOf(c.Side)

	m.TraceRect(c.Bounds().Inflate(half).Clamp(m.Box()), side, OccupiedByComponent, OrCell)
	for i, pad := range c.Pads {
		m.TracePad(c, i, OccupiedByComponent, half+pad.Clearance, OrCell)
	}

	margin := p.eval.keepOutMargin(c)
	m.CreateKeepOutRectangle(c.Bounds().Inflate(half), margin, p.keepOut, side)
	p.free.Subtract(p.areas.BuildAreas(c, margin))
}
