package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/xaslilac/bombas/internal/grid"
	"github.com/xaslilac/bombas/internal/session"
)

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"o": 2,
	"m": 2,
	"r": 0,
}

func parseXY(twoStrings []string) (x int, y int, err error) {
	if x, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = errors.New("first argument must be an int")
		return
	}
	if y, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = errors.New("second argument must be an int")
		return
	}
	return
}

// executeCommand applies one text command to a session:
//
//	o x y // open (or chord) the tile at x:y
//	m x y // rotate the mark on the tile at x:y
//	r     // restart with the current board parameters
func executeCommand(s *session.Session, c string) error {
	parts := strings.Split(strings.TrimSpace(c), " ")
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return errors.New("unknown command")
	}
	if nargs != len(parts)-1 {
		return errors.New("invalid number of arguments")
	}
	switch parts[0] {
	case "o":
		x, y, err := parseXY(parts[1:])
		if err != nil {
			return err
		}
		if err := s.Open(grid.Point{X: x, Y: y}); err != nil {
			return err
		}
		return nil
	case "m":
		x, y, err := parseXY(parts[1:])
		if err != nil {
			return err
		}
		if err := s.Mark(grid.Point{X: x, Y: y}); err != nil {
			return err
		}
		return nil
	case "r":
		return s.Restart(nil)
	}
	return errors.New("invalid command")
}
