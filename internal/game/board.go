package game

import (
	"errors"
	"math/rand"
)

// TileStatus describes whether a tile currently holds troops for an owner.
type TileStatus int

const (
	TileEmpty TileStatus = iota
	TileOccupied
)

func (s TileStatus) String() string {
	if s == TileOccupied {
		return "occupied"
	}
	return "empty"
}

func (s TileStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// TileType is the terrain/building kind of a tile.
type TileType int

const (
	TileBlank TileType = iota
	TileKingdom
	TileMountain
	TileCastle
)

func (t TileType) String() string {
	switch t {
	case TileKingdom:
		return "kingdom"
	case TileMountain:
		return "mountain"
	case TileCastle:
		return "castle"
	default:
		return "blank"
	}
}

func (t TileType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// Tile is a single cell of a Board.
//
// Mountain tiles are always Empty and owner-less. Kingdom/Castle tiles may
// be Empty (neutral, holding a defensive garrison) or Occupied. A Kingdom
// transmutes to Castle the moment it is captured (see ResolveCombat).
type Tile struct {
	Status TileStatus
	Type   TileType
	Owner  string // player uuid, empty when unowned
	Troops int
}

// Coord is a zero-based board coordinate.
type Coord struct {
	X, Y int
}

// Board is a column-major grid of tiles: Tiles[x][y].
type Board struct {
	Width  int
	Height int
	Tiles  [][]Tile
}

// NewBoard allocates a width x height board of Blank Empty tiles.
func NewBoard(width, height int) *Board {
	tiles := make([][]Tile, width)
	for x := range tiles {
		tiles[x] = make([]Tile, height)
	}
	return &Board{Width: width, Height: height, Tiles: tiles}
}

// InBounds reports whether c lies within the board.
func (b *Board) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < b.Width && c.Y >= 0 && c.Y < b.Height
}

// At returns a pointer to the tile at c. Caller must ensure InBounds(c).
func (b *Board) At(c Coord) *Tile {
	return &b.Tiles[c.X][c.Y]
}

// Clamp saturates c to the board's bounds, used when a move targets past
// an edge (the attack then resolves against the origin tile itself).
func (b *Board) Clamp(c Coord) Coord {
	if c.X < 0 {
		c.X = 0
	}
	if c.X >= b.Width {
		c.X = b.Width - 1
	}
	if c.Y < 0 {
		c.Y = 0
	}
	if c.Y >= b.Height {
		c.Y = b.Height - 1
	}
	return c
}

// RandomEmptyCoord picks a uniformly random Empty Blank tile; Mountain and
// Castle tiles are never chosen. Returns an error if the board holds no
// Empty Blank tile.
func (b *Board) RandomEmptyCoord(rng *rand.Rand) (Coord, error) {
	var candidates []Coord
	for x := 0; x < b.Width; x++ {
		for y := 0; y < b.Height; y++ {
			if b.Tiles[x][y].Status == TileEmpty && b.Tiles[x][y].Type == TileBlank {
				candidates = append(candidates, Coord{X: x, Y: y})
			}
		}
	}
	if len(candidates) == 0 {
		return Coord{}, errors.New("board: no empty tile available")
	}
	return candidates[rng.Intn(len(candidates))], nil
}

// Neighbors8 returns c and its up-to-8 adjacent coordinates, clamped to the
// board's bounds and de-duplicated.
func (b *Board) Neighbors8(c Coord) []Coord {
	seen := make(map[Coord]struct{}, 9)
	var out []Coord
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			n := Coord{X: c.X + dx, Y: c.Y + dy}
			if !b.InBounds(n) {
				continue
			}
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}

// GenerationOptions configures random board generation.
type GenerationOptions struct {
	WidthMin, WidthMax   int
	HeightMin, HeightMax int
	MountainCount        int
	CastleCount          int
}

// GenerateBoard builds a random board: dimensions drawn from the configured
// ranges, MountainCount Mountain tiles and CastleCount neutral Castle tiles
// (garrisoned with 1 troop each) scattered across Blank terrain. Placement
// stops early once no Empty Blank tile remains.
func GenerateBoard(opts GenerationOptions, rng *rand.Rand) *Board {
	width := opts.WidthMin
	if opts.WidthMax > opts.WidthMin {
		width += rng.Intn(opts.WidthMax - opts.WidthMin)
	}
	height := opts.HeightMin
	if opts.HeightMax > opts.HeightMin {
		height += rng.Intn(opts.HeightMax - opts.HeightMin)
	}

	b := NewBoard(width, height)

	placeScattered := func(n int, set func(*Tile)) {
		for i := 0; i < n; i++ {
			c, err := b.RandomEmptyCoord(rng)
			if err != nil {
				return
			}
			set(b.At(c))
		}
	}

	placeScattered(opts.MountainCount, func(t *Tile) {
		t.Type = TileMountain
		t.Status = TileEmpty
	})
	placeScattered(opts.CastleCount, func(t *Tile) {
		t.Type = TileCastle
		t.Status = TileEmpty
		t.Troops = 1
	})

	return b
}
