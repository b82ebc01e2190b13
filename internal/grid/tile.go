package grid

import "fmt"

// Point is a 0-indexed board coordinate, X column and Y row.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.X, p.Y)
}

type TileState int8

const (
	StateDefault TileState = iota
	StateMarked
	StateQuestion
)

func (s TileState) String() string {
	switch s {
	case StateDefault:
		return " "
	case StateMarked:
		return "*"
	case StateQuestion:
		return "?"
	default:
		return "!"
	}
}

// Tile is one cell of the board. Point and Mine are fixed once the layout
// is generated; Checked is monotonic and never resets; State cycles only
// via [Grid.RotateState] and is independent of Checked.
type Tile struct {
	Point            Point     `json:"point"`
	Mine             bool      `json:"mine"`
	Checked          bool      `json:"checked"`
	State            TileState `json:"state"`
	SurroundingMines int       `json:"surrounding_mines"`
}

func (t Tile) String() string {
	if !t.Checked {
		return t.State.String()
	}
	if t.Mine {
		return "X"
	}
	return fmt.Sprint(t.SurroundingMines)
}
