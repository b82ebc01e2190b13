package grid

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/xaslilac/bombas/internal/clock"
)

// Params describes one board configuration.
type Params struct {
	Width     int
	Height    int
	MineCount int
}

// DefaultParams is the classic beginner board.
func DefaultParams() Params {
	return Params{Width: 9, Height: 9, MineCount: 10}
}

func (p Params) validate() error {
	if p.Width < 2 || p.Height < 2 {
		return ConfigurationError{"board must be at least 2x2"}
	}
	if p.MineCount < 1 {
		return ConfigurationError{"mine count must be positive"}
	}
	total := p.Width * p.Height
	if p.MineCount > total/2 {
		return ConfigurationError{"too many mines for board size"}
	}
	// corners never hold mines, so they are not eligible cells
	if p.MineCount > total-4 {
		return ConfigurationError{"not enough eligible cells for mines"}
	}
	return nil
}

// Grid owns the full game state: the tile matrix, the session timestamps
// and the win/loss outcome. All mutation flows through its operations; the
// presentation layer reads via Snapshot and the accessors and is poked to
// redraw through the render callback.
type Grid struct {
	params    Params
	layout    [][]*Tile // indexed [x][y]
	start     time.Time
	completed time.Time // zero while in progress
	victory   bool
	rnd       *rand.Rand
	clk       clock.Clock
	render    func()
}

// New builds a Grid with a freshly generated layout and the four corners
// already revealed. A nil clk falls back to the system clock.
func New(params Params, rnd *rand.Rand, clk clock.Clock) (*Grid, error) {
	if clk == nil {
		clk = clock.New()
	}
	g := &Grid{params: params, rnd: rnd, clk: clk}
	if err := g.BuildLayout(); err != nil {
		return nil, err
	}
	g.CheckCorners()
	return g, nil
}

func (g *Grid) Width() int           { return g.params.Width }
func (g *Grid) Height() int          { return g.params.Height }
func (g *Grid) MineCount() int       { return g.params.MineCount }
func (g *Grid) Params() Params       { return g.params }
func (g *Grid) StartedAt() time.Time { return g.start }
func (g *Grid) Victory() bool        { return g.victory }

// CompletedAt reports when the game ended; ok is false while in progress.
func (g *Grid) CompletedAt() (completed time.Time, ok bool) {
	return g.completed, !g.completed.IsZero()
}

// Over reports whether the game has ended, either way.
func (g *Grid) Over() bool {
	return !g.completed.IsZero()
}

// OnRender registers fn to be called after every state-changing operation,
// once per operation no matter how far a reveal cascades.
func (g *Grid) OnRender(fn func()) {
	g.render = fn
}

func (g *Grid) signalRender() {
	if g.render != nil {
		g.render()
	}
}

// BuildLayout regenerates the entire board: a fresh width x height matrix
// of tiles, mines placed by rejection sampling that never lands on an
// occupied cell or a corner, and reset session timestamps. On a
// ConfigurationError the previous layout is left untouched.
func (g *Grid) BuildLayout() error {
	if err := g.params.validate(); err != nil {
		return err
	}

	w, h := g.params.Width, g.params.Height
	layout := make([][]*Tile, w)
	for x := range layout {
		layout[x] = make([]*Tile, h)
		for y := range layout[x] {
			layout[x][y] = &Tile{Point: Point{X: x, Y: y}}
		}
	}

	// validate guarantees enough eligible cells, so this terminates
	for placed := 0; placed < g.params.MineCount; {
		x, y := g.rnd.IntN(w), g.rnd.IntN(h)
		t := layout[x][y]
		if t.Mine || g.isCorner(t.Point) {
			continue
		}
		t.Mine = true
		placed++
	}

	g.layout = layout
	g.start = g.clk.Now()
	g.completed = time.Time{}
	g.victory = false
	return nil
}

// Reconfigure swaps in new board parameters and regenerates in place, so
// references to the Grid itself stay valid across a "new game".
func (g *Grid) Reconfigure(params Params) error {
	if err := params.validate(); err != nil {
		return err
	}
	g.params = params
	if err := g.BuildLayout(); err != nil {
		return err
	}
	g.CheckCorners()
	return nil
}

// Tile returns the tile at p, or nil when p is outside the board. Every
// neighbor and corner lookup routes through here.
func (g *Grid) Tile(p Point) *Tile {
	if p.X < 0 || p.X >= g.params.Width || p.Y < 0 || p.Y >= g.params.Height {
		return nil
	}
	return g.layout[p.X][p.Y]
}

var neighborOffsets = [8]Point{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// NeighborTiles returns the up-to-8 adjacent tiles that exist on the board
// and satisfy pred. A nil pred keeps every existing neighbor. Enumeration
// order follows the fixed offset table.
func (g *Grid) NeighborTiles(t *Tile, pred func(*Tile) bool) []*Tile {
	var neighbors []*Tile
	for _, d := range neighborOffsets {
		n := g.Tile(Point{X: t.Point.X + d.X, Y: t.Point.Y + d.Y})
		if n == nil {
			continue
		}
		if pred == nil || pred(n) {
			neighbors = append(neighbors, n)
		}
	}
	return neighbors
}

func (g *Grid) corners() [4]Point {
	return [4]Point{
		{0, 0},
		{0, g.params.Height - 1},
		{g.params.Width - 1, 0},
		{g.params.Width - 1, g.params.Height - 1},
	}
}

func (g *Grid) isCorner(p Point) bool {
	for _, c := range g.corners() {
		if p == c {
			return true
		}
	}
	return false
}

// CheckCorners reveals the four corners. Generation keeps them mine-free,
// so this always opens a safe starting region.
func (g *Grid) CheckCorners() {
	for _, c := range g.corners() {
		g.safeCheckLocation(g.Tile(c))
	}
	g.finish()
	g.signalRender()
}

// RotateState cycles a tile's annotation default -> marked -> question ->
// default, independent of whether the tile is checked or mined.
func (g *Grid) RotateState(t *Tile) {
	switch t.State {
	case StateDefault:
		t.State = StateMarked
	case StateMarked:
		t.State = StateQuestion
	case StateQuestion:
		t.State = StateDefault
	}
	g.signalRender()
}

// finish ends the game with a victory once no unchecked safe tile remains.
// It is a no-op when the game is already over.
func (g *Grid) finish() {
	if !g.completed.IsZero() {
		return
	}
	for x := range g.layout {
		for _, t := range g.layout[x] {
			if !t.Checked && !t.Mine {
				return
			}
		}
	}
	g.completed = g.clk.Now()
	g.victory = true
}

// Snapshot deep-copies the tile matrix for presentation code; mutating the
// copy never touches the live layout.
func (g *Grid) Snapshot() [][]Tile {
	snapshot := make([][]Tile, len(g.layout))
	for x, column := range g.layout {
		snapshot[x] = make([]Tile, len(column))
		for y, t := range column {
			snapshot[x][y] = *t
		}
	}
	return snapshot
}

func (g *Grid) String() string {
	var b strings.Builder
	for y := range g.params.Height {
		for x := range g.params.Width {
			fmt.Fprint(&b, g.layout[x][y].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}
