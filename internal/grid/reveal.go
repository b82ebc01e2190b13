package grid

// CheckLocation reveals a tile, or chords it when it is already revealed.
// One render signal is emitted for the whole operation, after any cascade
// has run to completion.
func (g *Grid) CheckLocation(t *Tile) {
	g.checkLocation(t, false)
}

// checkLocation is the reveal engine. skipRender marks a recursive call:
// it suppresses the win scan and the render signal, which the root call
// performs exactly once.
func (g *Grid) checkLocation(t *Tile, skipRender bool) {
	if t.Checked {
		// Chord: reveal every unchecked, unmarked neighbor of an
		// already-open tile. A mine hit ends the game mid-chord.
		for _, n := range g.NeighborTiles(t, func(n *Tile) bool {
			return !n.Checked && n.State == StateDefault
		}) {
			g.safeCheckLocation(n)
			if g.Over() {
				break
			}
		}
		if !skipRender {
			g.finish()
			g.signalRender()
		}
		return
	}

	count := len(g.NeighborTiles(t, func(n *Tile) bool {
		return n.Mine
	}))

	// Checked flips before any recursion; the neighbor graph is cyclic
	// and this flag is the visited set.
	t.Checked = true

	if t.Mine {
		g.completed = g.clk.Now()
		g.victory = false
		if !skipRender {
			g.signalRender()
		}
		return
	}

	if count == 0 {
		// Flood fill: a zero-count tile expands into all its
		// neighbors, stopping at numbered boundary tiles.
		for _, n := range g.NeighborTiles(t, nil) {
			g.safeCheckLocation(n)
		}
	} else {
		t.SurroundingMines = count
	}

	if !skipRender {
		g.finish()
		g.signalRender()
	}
}

// safeCheckLocation recurses into t only if it has not been checked yet.
// Every recursive caller goes through here, which bounds the whole cascade
// by the tile count.
func (g *Grid) safeCheckLocation(t *Tile) {
	if t != nil && !t.Checked {
		g.checkLocation(t, true)
	}
}
