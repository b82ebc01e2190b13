package grid

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaslilac/bombas/internal/clock"
)

func testClock() *clock.MockClock {
	return &clock.MockClock{Time: time.Unix(1700000000, 0).UTC()}
}

// testGrid builds a grid with mines at fixed points and nothing revealed,
// bypassing random placement and the corner auto-reveal.
func testGrid(w, h int, clk clock.Clock, mines ...Point) *Grid {
	g := &Grid{
		params: Params{Width: w, Height: h, MineCount: len(mines)},
		rnd:    rand.New(rand.NewPCG(1, 2)),
		clk:    clk,
	}
	g.layout = make([][]*Tile, w)
	for x := range g.layout {
		g.layout[x] = make([]*Tile, h)
		for y := range g.layout[x] {
			g.layout[x][y] = &Tile{Point: Point{X: x, Y: y}}
		}
	}
	for _, p := range mines {
		g.Tile(p).Mine = true
	}
	g.start = clk.Now()
	return g
}

func TestParamsValidation(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{"beginner", Params{9, 9, 10}, false},
		{"expert", Params{30, 16, 99}, false},
		{"half full", Params{4, 4, 8}, false},
		{"one over half", Params{4, 4, 9}, true},
		{"no mines", Params{9, 9, 0}, true},
		{"tiny board leaves no eligible cells", Params{2, 2, 1}, true},
		{"degenerate width", Params{1, 9, 1}, true},
		{"degenerate height", Params{9, 0, 1}, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.params.validate()
			if test.wantErr {
				var ce ConfigurationError
				require.Error(t, err)
				assert.ErrorAs(t, err, &ce)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewRejectsTooManyMines(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	g, err := New(Params{Width: 5, Height: 5, MineCount: 13}, rnd, testClock())
	var ce ConfigurationError
	assert.ErrorAs(t, err, &ce)
	assert.Nil(t, g)
}

func TestGeneration(t *testing.T) {
	for seed := range uint64(25) {
		rnd := rand.New(rand.NewPCG(seed, seed+1))
		g, err := New(Params{Width: 9, Height: 9, MineCount: 10}, rnd, testClock())
		require.NoError(t, err)

		var mines int
		for x := range g.Width() {
			for y := range g.Height() {
				if g.Tile(Point{X: x, Y: y}).Mine {
					mines++
				}
			}
		}
		assert.Equal(t, 10, mines)

		for _, c := range g.corners() {
			corner := g.Tile(c)
			assert.False(t, corner.Mine, "corner %s holds a mine", c)
			assert.True(t, corner.Checked, "corner %s not auto-revealed", c)
		}
	}
}

func TestReconfigureFailureKeepsLayout(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	g, err := New(Params{Width: 9, Height: 9, MineCount: 10}, rnd, testClock())
	require.NoError(t, err)
	before := g.Snapshot()

	err = g.Reconfigure(Params{Width: 4, Height: 4, MineCount: 9})
	var ce ConfigurationError
	require.ErrorAs(t, err, &ce)

	assert.Equal(t, 9, g.Width())
	assert.Equal(t, before, g.Snapshot())
}

func TestReconfigureResetsSessionState(t *testing.T) {
	clk := testClock()
	g := testGrid(5, 5, clk, Point{2, 2})
	g.CheckLocation(g.Tile(Point{2, 2}))
	require.True(t, g.Over())
	require.False(t, g.Victory())

	clk.Advance(time.Minute)
	require.NoError(t, g.Reconfigure(Params{Width: 6, Height: 6, MineCount: 5}))

	_, done := g.CompletedAt()
	assert.False(t, done)
	assert.False(t, g.Victory())
	assert.Equal(t, clk.Time, g.StartedAt())
	assert.Equal(t, 6, g.Width())
	for _, c := range g.corners() {
		assert.False(t, g.Tile(c).Mine)
		assert.True(t, g.Tile(c).Checked)
	}
}

func TestTileLookup(t *testing.T) {
	g := testGrid(4, 3, testClock())
	assert.Nil(t, g.Tile(Point{-1, 0}))
	assert.Nil(t, g.Tile(Point{0, -1}))
	assert.Nil(t, g.Tile(Point{4, 0}))
	assert.Nil(t, g.Tile(Point{0, 3}))
	require.NotNil(t, g.Tile(Point{3, 2}))
	assert.Equal(t, Point{3, 2}, g.Tile(Point{3, 2}).Point)
}

func TestNeighborTiles(t *testing.T) {
	g := testGrid(5, 5, testClock(), Point{1, 1}, Point{3, 3})

	assert.Len(t, g.NeighborTiles(g.Tile(Point{2, 2}), nil), 8)
	assert.Len(t, g.NeighborTiles(g.Tile(Point{0, 0}), nil), 3)
	assert.Len(t, g.NeighborTiles(g.Tile(Point{2, 0}), nil), 5)

	mined := g.NeighborTiles(g.Tile(Point{2, 2}), func(n *Tile) bool {
		return n.Mine
	})
	require.Len(t, mined, 2)
	// fixed offset enumeration order: top-left first
	assert.Equal(t, Point{1, 1}, mined[0].Point)
	assert.Equal(t, Point{3, 3}, mined[1].Point)
}

func TestRotateState(t *testing.T) {
	g := testGrid(3, 3, testClock(), Point{1, 1})
	tile := g.Tile(Point{1, 1})

	var renders int
	g.OnRender(func() { renders++ })

	states := []TileState{StateMarked, StateQuestion, StateDefault}
	for i, want := range states {
		g.RotateState(tile)
		assert.Equal(t, want, tile.State)
		assert.Equal(t, i+1, renders)
	}
	assert.True(t, tile.Mine)
	assert.False(t, tile.Checked)
}

func TestSnapshotIsDetached(t *testing.T) {
	g := testGrid(3, 3, testClock(), Point{1, 1})
	snapshot := g.Snapshot()
	snapshot[0][0].Checked = true
	snapshot[1][1].Mine = false

	assert.False(t, g.Tile(Point{0, 0}).Checked)
	assert.True(t, g.Tile(Point{1, 1}).Mine)
}
