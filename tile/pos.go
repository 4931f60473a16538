package tile

import (
	"fmt"
	"math"
)

// Pos is a packed tile coordinate, x in the high 16 bits and y in the low 16 bits
// Stable and unique per building for the building's lifetime
type Pos int32

// Pack encodes tile coordinates into a Pos
func Pack(x, y int) Pos {
	return Pos(int32(x)<<16 | int32(y)&0xFFFF)
}

// X returns the unpacked x coordinate
func (p Pos) X() int {
	return int(int32(p) >> 16)
}

// Y returns the unpacked y coordinate
func (p Pos) Y() int {
	return int(int16(int32(p) & 0xFFFF))
}

// Dst returns the euclidean distance in tiles
func (p Pos) Dst(o Pos) float64 {
	dx := float64(p.X() - o.X())
	dy := float64(p.Y() - o.Y())
	return math.Sqrt(dx*dx + dy*dy)
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X(), p.Y())
}

// Team identifies the owner of a building
type Team uint8

const (
	TeamDerelict Team = iota
	TeamSharded
	TeamCrux
)

func (t Team) String() string {
	switch t {
	case TeamDerelict:
		return "derelict"
	case TeamSharded:
		return "sharded"
	case TeamCrux:
		return "crux"
	default:
		return fmt.Sprintf("team#%d", uint8(t))
	}
}
