package squishyplanet

import (
	"math"

	"github.com/h4tt3n/squishy-planet-physics-engine/vect"
)

// SpatialHashGrid is the uniform grid broadphase. Buckets hold particle
// stable ids and are allocated once; Clear only resets their lengths, so
// a grid never allocates in steady state.
//
// Columns and rows are derived from the particle position, which is free
// to leave the configured world box. Hash does not check columns and rows
// separately: a column past either side edge lands in a cell at the
// opposite edge of a neighbouring row, and only hashes outside the bucket
// range are rejected (Bucket returns nil, insertion silently drops them).
// A particle whose cells all hash out of range does not collide.
type SpatialHashGrid struct {
	cellSize vect.Float
	numCols  int
	numRows  int
	cells    [][]int32
}

func NewSpatialHashGrid(width, height, cellSize int) *SpatialHashGrid {
	g := &SpatialHashGrid{
		cellSize: vect.Float(cellSize),
		numCols:  width/cellSize + 1,
		numRows:  height/cellSize + 1,
	}
	g.cells = make([][]int32, g.numCols*g.numRows)
	for i := range g.cells {
		g.cells[i] = make([]int32, 0, 8)
	}
	return g
}

// Clear empties all buckets. Each bucket is reset independently, so the
// sweep is run from parallel workers.
func (g *SpatialHashGrid) Clear() {
	parallelFor(len(g.cells), func(start, end int) {
		for i := start; i < end; i++ {
			g.cells[i] = g.cells[i][:0]
		}
	})
}

// CellRange returns the inclusive column and row range covered by the
// axis-aligned box [pos-r, pos+r]. Columns and rows can be negative or
// past the grid edge for positions outside the world box.
func (g *SpatialHashGrid) CellRange(pos vect.Vect, r vect.Float) (minCol, maxCol, minRow, maxRow int) {
	minCol = int(math.Floor(float64((pos.X - r) / g.cellSize)))
	maxCol = int(math.Floor(float64((pos.X + r) / g.cellSize)))
	minRow = int(math.Floor(float64((pos.Y - r) / g.cellSize)))
	maxRow = int(math.Floor(float64((pos.Y + r) / g.cellSize)))
	return
}

// Hash maps a column/row pair to a bucket index. A column outside the
// grid wraps into a neighbouring row; a row outside the grid usually
// gives a negative or past-the-end index. Callers must go through Bucket
// or Insert, which reject out-of-range indices.
func (g *SpatialHashGrid) Hash(col, row int) int {
	return col + row*g.numCols
}

// Bucket returns the ids hashed into the given cell, or nil when the
// hash is out of range.
func (g *SpatialHashGrid) Bucket(hash int) []int32 {
	if hash < 0 || hash >= len(g.cells) {
		return nil
	}
	return g.cells[hash]
}

// Insert appends an id to the given cell, dropping out-of-range hashes.
// Not safe for concurrent use; the broadphase drains its parallel phase
// into the buckets from a single goroutine.
func (g *SpatialHashGrid) Insert(hash int, id int32) {
	if hash < 0 || hash >= len(g.cells) {
		return
	}
	g.cells[hash] = append(g.cells[hash], id)
}

func (g *SpatialHashGrid) NumCols() int {
	return g.numCols
}

func (g *SpatialHashGrid) NumRows() int {
	return g.numRows
}
