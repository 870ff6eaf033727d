package game

import "testing"

func TestGrowOnlyAffectsOccupiedTiles(t *testing.T) {
	b := NewBoard(1, 1)
	b.Tiles[0][0] = Tile{Status: TileEmpty, Type: TileBlank, Troops: 0}

	Grow(b, 1, GrowthPeriods{Kingdom: 1, Castle: 1, Blank: 1})

	if b.Tiles[0][0].Troops != 0 {
		t.Fatalf("empty tile grew: troops = %d", b.Tiles[0][0].Troops)
	}
}

func TestGrowRespectsPerTypePeriods(t *testing.T) {
	periods := GrowthPeriods{Kingdom: 1, Castle: 2, Blank: 3}
	b := NewBoard(3, 1)
	b.Tiles[0][0] = Tile{Status: TileOccupied, Type: TileKingdom, Troops: 0}
	b.Tiles[1][0] = Tile{Status: TileOccupied, Type: TileCastle, Troops: 0}
	b.Tiles[2][0] = Tile{Status: TileOccupied, Type: TileBlank, Troops: 0}

	// tick 1: only Kingdom (period 1) grows.
	Grow(b, 1, periods)
	if b.Tiles[0][0].Troops != 1 || b.Tiles[1][0].Troops != 0 || b.Tiles[2][0].Troops != 0 {
		t.Fatalf("tick 1 troops = %d,%d,%d, want 1,0,0",
			b.Tiles[0][0].Troops, b.Tiles[1][0].Troops, b.Tiles[2][0].Troops)
	}

	// tick 2: Kingdom and Castle (period 2) grow.
	Grow(b, 2, periods)
	if b.Tiles[0][0].Troops != 2 || b.Tiles[1][0].Troops != 1 || b.Tiles[2][0].Troops != 0 {
		t.Fatalf("tick 2 troops = %d,%d,%d, want 2,1,0",
			b.Tiles[0][0].Troops, b.Tiles[1][0].Troops, b.Tiles[2][0].Troops)
	}

	// tick 3: Kingdom and Blank (period 3) grow.
	Grow(b, 3, periods)
	if b.Tiles[0][0].Troops != 3 || b.Tiles[1][0].Troops != 1 || b.Tiles[2][0].Troops != 1 {
		t.Fatalf("tick 3 troops = %d,%d,%d, want 3,1,1",
			b.Tiles[0][0].Troops, b.Tiles[1][0].Troops, b.Tiles[2][0].Troops)
	}
}

func TestGrowSkipsZeroPeriod(t *testing.T) {
	b := NewBoard(1, 1)
	b.Tiles[0][0] = Tile{Status: TileOccupied, Type: TileBlank, Troops: 0}

	Grow(b, 5, GrowthPeriods{Blank: 0})

	if b.Tiles[0][0].Troops != 0 {
		t.Fatalf("tile grew despite zero growth period: troops = %d", b.Tiles[0][0].Troops)
	}
}

func TestGrowIgnoresMountains(t *testing.T) {
	b := NewBoard(1, 1)
	b.Tiles[0][0] = Tile{Status: TileEmpty, Type: TileMountain}

	Grow(b, 1, GrowthPeriods{Kingdom: 1, Castle: 1, Blank: 1})

	if b.Tiles[0][0].Troops != 0 {
		t.Fatalf("mountain grew: troops = %d", b.Tiles[0][0].Troops)
	}
}
