package game

import (
	"math"
	"runtime"
	"sync"

	"github.com/playmatatu/minigolf/internal/course"
)

const (
	// MagnetCellSize is the edge length, in pixels, of one force-field cell.
	MagnetCellSize = 5
	MagnetWidth    = course.Width * course.TileSize / MagnetCellSize
	MagnetHeight   = course.Height * course.TileSize / MagnetCellSize

	magnetRange        float32 = 127
	magnetCenterOffset         = 8
	sampleOffset               = 2
)

// Magnet is a magnetic tile found on a course.
type Magnet struct {
	Repel bool `json:"repel"`
	Index int  `json:"index"`
}

// Force is a per-cell push in pixels per tick, x then y.
type Force [2]int32

// MagnetForces is the precomputed force field of a course at 1/5 resolution.
type MagnetForces struct {
	forces []Force
}

// ExtractMagnets returns one Magnet per attracting or repelling tile, in tile order.
func ExtractMagnets(tiles []course.Tile) []Magnet {
	var magnets []Magnet
	for i, t := range tiles {
		s, ok := t.Special()
		if !ok {
			continue
		}
		switch s {
		case course.MagnetAttract:
			magnets = append(magnets, Magnet{Repel: false, Index: i})
		case course.MagnetRepel:
			magnets = append(magnets, Magnet{Repel: true, Index: i})
		}
	}
	return magnets
}

// CalculateForces builds the force field using one worker per CPU.
func CalculateForces(magnets []Magnet) *MagnetForces {
	return CalculateForcesWorkers(magnets, runtime.GOMAXPROCS(0))
}

// CalculateForcesWorkers builds the force field, splitting rows across
// workers. Every cell depends only on the magnet list, so rows are independent.
func CalculateForcesWorkers(magnets []Magnet, workers int) *MagnetForces {
	forces := make([]Force, MagnetWidth*MagnetHeight)
	if len(magnets) == 0 {
		return &MagnetForces{forces: forces}
	}
	if workers < 1 {
		workers = 1
	}
	if workers > MagnetHeight {
		workers = MagnetHeight
	}

	rows := make(chan int, MagnetHeight)
	for row := 0; row < MagnetHeight; row++ {
		rows <- row
	}
	close(rows)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for row := range rows {
				py := row*MagnetCellSize + sampleOffset
				for col := 0; col < MagnetWidth; col++ {
					px := col*MagnetCellSize + sampleOffset
					forces[row*MagnetWidth+col] = forceAt(px, py, magnets)
				}
			}
		}()
	}
	wg.Wait()

	return &MagnetForces{forces: forces}
}

// forceAt sums the pull of every magnet within range of pixel (px, py).
// The strength is split between axes by |dx|/distance rather than by a true
// projection; clients depend on that split.
func forceAt(px, py int, magnets []Magnet) Force {
	var total Force
	for _, m := range magnets {
		tx, ty := course.IndexToXY(m.Index)
		dx := int32(tx*course.TileSize + magnetCenterOffset - px)
		dy := int32(ty*course.TileSize + magnetCenterOffset - py)

		// Magnet centres sit at 3 mod 5 and samples at 2 mod 5, so the
		// distance is never zero.
		distance := float32(math.Sqrt(float64(float32(dx*dx + dy*dy))))
		if distance > magnetRange {
			continue
		}

		share := float32(abs32(dx)) / distance
		strength := magnetRange - distance

		fx := int32(strength * share)
		fy := int32(strength * (1 - share))
		if dx < 0 {
			fx = -fx
		}
		if dy < 0 {
			fy = -fy
		}
		if m.Repel {
			fx, fy = -fx, -fy
		}

		total[0] += fx
		total[1] += fy
	}
	return total
}

func abs32(n int32) int32 {
	if n < 0 {
		return -n
	}
	return n
}

// Force returns the force acting at pixel (x, y), or false outside the course.
func (mf *MagnetForces) Force(x, y int) (Force, bool) {
	if x < 0 || y < 0 || x/MagnetCellSize >= MagnetWidth {
		return Force{}, false
	}
	return mf.Cell((y/MagnetCellSize)*MagnetWidth + x/MagnetCellSize)
}

// Cell returns the force stored at a flat cell index.
func (mf *MagnetForces) Cell(i int) (Force, bool) {
	if i < 0 || i >= len(mf.forces) {
		return Force{}, false
	}
	return mf.forces[i], true
}

// NonZero counts cells that carry any force.
func (mf *MagnetForces) NonZero() int {
	n := 0
	for _, f := range mf.forces {
		if f != (Force{}) {
			n++
		}
	}
	return n
}
