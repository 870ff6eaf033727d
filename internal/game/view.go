package game

// TileView is the fog-of-war-masked representation of a single tile, sent
// to a given player inside a GameUpdate.
type TileView struct {
	Status     TileStatus `json:"status"`
	Type       TileType   `json:"tile_type"`
	PlayerName *string    `json:"player_name"`
	Troops     int        `json:"nb_troops"`
	Hidden     bool       `json:"hidden"`
}

// ResolveName maps an owner uuid to a display name for TileUpdate
// serialization; the tick resolver supplies one backed by the registry.
type ResolveName func(uuid string) (name string, ok bool)

// View builds the fog-of-war board a single player (identified by their
// owned tiles) should see: Mountain/Kingdom/Castle types are masked to
// Mountain and hidden everywhere except the eight neighbors of, and the
// tile itself for, every tile the player owns.
func View(b *Board, ownerUUID string, resolve ResolveName) [][]TileView {
	out := make([][]TileView, b.Width)
	for x := range out {
		out[x] = make([]TileView, b.Height)
		for y := range out[x] {
			tileType := b.Tiles[x][y].Type
			if tileType != TileBlank {
				tileType = TileMountain
			}
			out[x][y] = TileView{
				Status: TileEmpty,
				Type:   tileType,
				Troops: 0,
				Hidden: true,
			}
		}
	}

	reveal := func(c Coord) {
		real := b.Tiles[c.X][c.Y]
		view := TileView{
			Status: real.Status,
			Type:   real.Type,
			Troops: real.Troops,
			Hidden: false,
		}
		if real.Owner != "" {
			if name, ok := resolve(real.Owner); ok {
				view.PlayerName = &name
			}
		}
		out[c.X][c.Y] = view
	}

	for x := 0; x < b.Width; x++ {
		for y := 0; y < b.Height; y++ {
			t := b.Tiles[x][y]
			if t.Status != TileOccupied || t.Owner != ownerUUID {
				continue
			}
			c := Coord{X: x, Y: y}
			reveal(c)
			for _, n := range b.Neighbors8(c) {
				reveal(n)
			}
		}
	}

	return out
}
