package game

import (
	"github.com/kamstrup/intmap"
	"github.com/plus3/blockfall/piece"
)

// Stats is a Listener that counts controller events.
type Stats struct {
	Locks  int
	Rows   int
	Resets int

	spawns *intmap.Map[piece.Kind, int]
	clears *intmap.Map[int, int]
}

// NewStats creates an empty counter set.
func NewStats() *Stats {
	return &Stats{
		spawns: intmap.New[piece.Kind, int](piece.KindCount),
		clears: intmap.New[int, int](4),
	}
}

func (s *Stats) OnEvent(ev Event) {
	switch ev.Type {
	case EventSpawned:
		n, _ := s.spawns.Get(ev.Kind)
		s.spawns.Put(ev.Kind, n+1)
	case EventLocked:
		s.Locks++
	case EventCleared:
		s.Rows += len(ev.Rows)
		n, _ := s.clears.Get(len(ev.Rows))
		s.clears.Put(len(ev.Rows), n+1)
	case EventReset:
		s.Resets++
	}
}

// Spawns returns how many pieces of kind were spawned.
func (s *Stats) Spawns(kind piece.Kind) int {
	n, _ := s.spawns.Get(kind)
	return n
}

// TotalSpawns returns the number of spawned pieces of any kind.
func (s *Stats) TotalSpawns() int {
	total := 0
	s.spawns.ForEach(func(_ piece.Kind, n int) bool {
		total += n
		return true
	})
	return total
}

// Clears returns how many locks cleared exactly size rows at once.
func (s *Stats) Clears(size int) int {
	n, _ := s.clears.Get(size)
	return n
}

// ClearSizes returns the distinct clear sizes seen so far.
func (s *Stats) ClearSizes() int {
	return s.clears.Len()
}

// Reset zeroes every counter.
func (s *Stats) Reset() {
	s.Locks, s.Rows, s.Resets = 0, 0, 0
	s.spawns.Clear()
	s.clears.Clear()
}
