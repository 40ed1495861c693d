package autotile

// Offsets are in tiles from the atom's pic, indexed by Index4 (bit 0 west,
// bit 1 east, bit 2 north, bit 3 south).

var nineTile = [16]offset{
	{0, 0}, {1, 0}, {-1, 0}, {0, 0},
	{0, 1}, {1, 1}, {-1, 1}, {0, 1},
	{0, -1}, {1, -1}, {-1, -1}, {0, -1},
	{0, 0}, {1, 0}, {-1, 0}, {0, 0},
}

// Relative to the middle of the 3×3 square in a 4×4 block whose fourth
// column is the vertical strip, fourth row the horizontal strip and corner
// the single tile.
var stripsCenter = [16]offset{
	{2, 2}, {1, 2}, {-1, 2}, {0, 2},
	{2, 1}, {1, 1}, {-1, 1}, {0, 1},
	{2, -1}, {1, -1}, {-1, -1}, {0, -1},
	{2, 0}, {1, 0}, {-1, 0}, {0, 0},
}

// Same block as stripsCenter, relative to the single tile.
var stripsSingle = [16]offset{
	{0, 0}, {-1, 0}, {-3, 0}, {-2, 0},
	{0, -1}, {-1, -1}, {-3, -1}, {-2, -1},
	{0, -3}, {-1, -3}, {-3, -3}, {-2, -3},
	{0, -2}, {-1, -2}, {-3, -2}, {-2, -2},
}

var horizontal = [16]offset{
	{0, 0}, {1, 0}, {-1, 0}, {0, 0},
	{0, 0}, {1, 0}, {-1, 0}, {0, 0},
	{0, 0}, {1, 0}, {-1, 0}, {0, 0},
	{0, 0}, {1, 0}, {-1, 0}, {0, 0},
}

var horizontalAlone = [16]offset{
	{2, 0}, {1, 0}, {-1, 0}, {0, 0},
	{2, 0}, {1, 0}, {-1, 0}, {0, 0},
	{2, 0}, {1, 0}, {-1, 0}, {0, 0},
	{2, 0}, {1, 0}, {-1, 0}, {0, 0},
}

var horizontalSingle = [16]offset{
	{0, 0}, {-1, 0}, {-3, 0}, {-2, 0},
	{0, 0}, {-1, 0}, {-3, 0}, {-2, 0},
	{0, 0}, {-1, 0}, {-3, 0}, {-2, 0},
	{0, 0}, {-1, 0}, {-3, 0}, {-2, 0},
}

var vertical = [16]offset{
	{0, 0}, {0, 0}, {0, 0}, {0, 0},
	{0, 1}, {0, 1}, {0, 1}, {0, 1},
	{0, -1}, {0, -1}, {0, -1}, {0, -1},
	{0, 0}, {0, 0}, {0, 0}, {0, 0},
}

var verticalAlone = [16]offset{
	{0, 2}, {0, 2}, {0, 2}, {0, 2},
	{0, 1}, {0, 1}, {0, 1}, {0, 1},
	{0, -1}, {0, -1}, {0, -1}, {0, -1},
	{0, 0}, {0, 0}, {0, 0}, {0, 0},
}

var verticalSingle = [16]offset{
	{0, 0}, {0, 0}, {0, 0}, {0, 0},
	{0, -1}, {0, -1}, {0, -1}, {0, -1},
	{0, -3}, {0, -3}, {0, -3}, {0, -3},
	{0, -2}, {0, -2}, {0, -2}, {0, -2},
}

// One tile per index in a 4×4 block, row-major.
var quarter16 = [16]offset{
	{0, 0}, {1, 0}, {2, 0}, {3, 0},
	{0, 1}, {1, 1}, {2, 1}, {3, 1},
	{0, 2}, {1, 2}, {2, 2}, {3, 2},
	{0, 3}, {1, 3}, {2, 3}, {3, 3},
}

var quarter16Full = [16]offset{
	{-3, -3}, {-2, -3}, {-1, -3}, {0, -3},
	{-3, -2}, {-2, -2}, {-1, -2}, {0, -2},
	{-3, -1}, {-2, -1}, {-1, -1}, {0, -1},
	{-3, 0}, {-2, 0}, {-1, 0}, {0, 0},
}

// Quadrant kinds of the 8-position layouts: outer, horizontal, vertical, fill.
var quarter8 = [4]offset{{0, 0}, {1, 0}, {2, 0}, {3, 0}}

var quarter8Fill = [4]offset{{-3, 0}, {-2, 0}, {-1, 0}, {0, 0}}
