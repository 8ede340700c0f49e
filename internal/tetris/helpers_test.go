package tetris

import "github.com/vovakirdan/blockfall/internal/core"

// scripted is a Randomizer replaying a fixed sequence of kinds.
type scripted struct {
	seq []Kind
	i   int
}

func kinds(ks ...Kind) *scripted {
	return &scripted{seq: ks}
}

func (s *scripted) Intn(n int) int {
	k := s.seq[s.i%len(s.seq)]
	s.i++
	return int(k) % n
}

// rowsFrom builds board rows from strings where '#' is an occupied gray cell.
func rowsFrom(lines ...string) [][]Cell {
	rows := make([][]Cell, len(lines))
	for y, line := range lines {
		rows[y] = make([]Cell, len(line))
		for x, ch := range line {
			if ch == '#' {
				rows[y][x] = core.ColorGray
			}
		}
	}
	return rows
}

// boardWithBottom returns an empty 10x20 board whose last rows are replaced.
func boardWithBottom(bottom ...string) Board {
	rows := make([]string, 0, 20)
	for i := 0; i < 20-len(bottom); i++ {
		rows = append(rows, "..........")
	}
	rows = append(rows, bottom...)
	return BoardFromRows(rowsFrom(rows...))
}
