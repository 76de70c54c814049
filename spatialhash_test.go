package squishyplanet

import (
	"testing"

	"github.com/h4tt3n/squishy-planet-physics-engine/vect"
)

func TestGridDimensions(t *testing.T) {
	g := NewSpatialHashGrid(1280, 720, 12)
	if g.NumCols() != 1280/12+1 {
		t.Errorf("NumCols = %d, want %d", g.NumCols(), 1280/12+1)
	}
	if g.NumRows() != 720/12+1 {
		t.Errorf("NumRows = %d, want %d", g.NumRows(), 720/12+1)
	}
}

func TestGridCellRange(t *testing.T) {
	g := NewSpatialHashGrid(120, 120, 12)

	tests := []struct {
		pos                        vect.Vect
		r                          vect.Float
		minCol, maxCol, minRow, maxRow int
	}{
		{vect.Vect{X: 6, Y: 6}, 1, 0, 0, 0, 0},
		{vect.Vect{X: 12, Y: 12}, 1, 0, 1, 0, 1},
		{vect.Vect{X: 0, Y: 0}, 1, -1, 0, -1, 0},
		{vect.Vect{X: 30, Y: 50}, 15, 1, 3, 2, 5},
		{vect.Vect{X: -40, Y: 200}, 1, -4, -4, 16, 16},
	}
	for _, tt := range tests {
		minCol, maxCol, minRow, maxRow := g.CellRange(tt.pos, tt.r)
		if minCol != tt.minCol || maxCol != tt.maxCol || minRow != tt.minRow || maxRow != tt.maxRow {
			t.Errorf("CellRange(%v, %v) = %d %d %d %d, want %d %d %d %d",
				tt.pos, tt.r, minCol, maxCol, minRow, maxRow,
				tt.minCol, tt.maxCol, tt.minRow, tt.maxRow)
		}
	}
}

func TestGridHash(t *testing.T) {
	g := NewSpatialHashGrid(120, 120, 12)
	if got := g.Hash(0, 0); got != 0 {
		t.Errorf("Hash(0,0) = %d", got)
	}
	if got := g.Hash(3, 2); got != 3+2*g.NumCols() {
		t.Errorf("Hash(3,2) = %d", got)
	}
	if got := g.Hash(-1, 0); got >= 0 {
		t.Errorf("Hash(-1,0) = %d, want negative", got)
	}
}

func TestGridBucketBounds(t *testing.T) {
	g := NewSpatialHashGrid(120, 120, 12)
	if b := g.Bucket(-1); b != nil {
		t.Errorf("Bucket(-1) = %v, want nil", b)
	}
	if b := g.Bucket(len(g.cells)); b != nil {
		t.Errorf("out of range Bucket = %v, want nil", b)
	}

	g.Insert(-1, 7) // silently dropped
	g.Insert(5, 7)
	if b := g.Bucket(5); len(b) != 1 || b[0] != 7 {
		t.Errorf("Bucket(5) = %v, want [7]", b)
	}
}

func TestGridClearKeepsAllocations(t *testing.T) {
	g := NewSpatialHashGrid(120, 120, 12)
	for i := 0; i < 20; i++ {
		g.Insert(3, int32(i))
	}
	grown := cap(g.cells[3])
	g.Clear()

	if len(g.cells[3]) != 0 {
		t.Errorf("bucket length after Clear = %d", len(g.cells[3]))
	}
	if cap(g.cells[3]) != grown {
		t.Errorf("Clear dropped the bucket allocation: cap %d, want %d", cap(g.cells[3]), grown)
	}
}
