package game

// Outcome is the closed enumeration of combat results from ResolveCombat.
// Effects are applied by the caller via Apply, mirroring the distilled
// spec's separation between "what happened" and "what to mutate".
type Outcome int

const (
	AttackingSameTile Outcome = iota
	NotEnoughTroops
	BlockedByMountain
	TileNotOwned
	SelfTroopsMove
	ConquerEmpty
	Tie
	Victory
	VictoryCastle
	Defeat
)

func (o Outcome) String() string {
	switch o {
	case AttackingSameTile:
		return "AttackingSameTile"
	case NotEnoughTroops:
		return "NotEnoughTroops"
	case BlockedByMountain:
		return "BlockedByMountain"
	case TileNotOwned:
		return "TileNotOwned"
	case SelfTroopsMove:
		return "SelfTroopsMove"
	case ConquerEmpty:
		return "ConquerEmpty"
	case Tie:
		return "Tie"
	case Victory:
		return "Victory"
	case VictoryCastle:
		return "VictoryCastle"
	case Defeat:
		return "Defeat"
	default:
		return "Unknown"
	}
}

// Assault is the result of ResolveCombat: the outcome plus whatever extra
// figure Apply needs (captured troop counts, cascade trigger).
type Assault struct {
	Outcome       Outcome
	RemainingWin  int  // troops left on the defender tile after Victory/VictoryCastle/ConquerEmpty; troops added to it after SelfTroopsMove
	DefenderLosts int  // troops left on the defender tile after Defeat
	WasKingdom    bool // captured tile was a Kingdom: triggers the cascade
}

// ResolveCombat evaluates a single attacker-vs-defender assault, following
// an ordered condition table: same-tile no-op, not-enough-troops no-op,
// mountain block, stolen-tile protection, move onto an own tile, conquer
// of an empty non-Castle tile, then tie, victory (a captured Kingdom
// flags the cascade) or defeat against the defenders. attackerUUID is the real uuid of the player whose queued move
// is being processed; it may differ from the attacking tile's recorded
// owner (stolen-tile protection).
func ResolveCombat(b *Board, attackerUUID string, from, to Coord) Assault {
	if from == to {
		return Assault{Outcome: AttackingSameTile}
	}

	attackTile := b.At(from)
	defendTile := b.At(to)

	effectiveAttackers := attackTile.Troops - 1
	if effectiveAttackers <= 0 {
		return Assault{Outcome: NotEnoughTroops}
	}

	if defendTile.Type == TileMountain {
		return Assault{Outcome: BlockedByMountain}
	}

	if attackTile.Owner != attackerUUID {
		return Assault{Outcome: TileNotOwned}
	}

	if attackTile.Owner == defendTile.Owner {
		return Assault{Outcome: SelfTroopsMove, RemainingWin: effectiveAttackers}
	}

	if defendTile.Status == TileEmpty && defendTile.Type != TileCastle {
		return Assault{Outcome: ConquerEmpty, RemainingWin: effectiveAttackers}
	}

	defenders := defendTile.Troops

	switch {
	case effectiveAttackers == defenders:
		return Assault{Outcome: Tie}
	case effectiveAttackers > defenders:
		won := Assault{
			Outcome:      Victory,
			RemainingWin: effectiveAttackers - defenders,
			WasKingdom:   defendTile.Type == TileKingdom,
		}
		if defendTile.Status == TileEmpty && defendTile.Type == TileCastle {
			won.Outcome = VictoryCastle
		}
		return won
	default:
		return Assault{Outcome: Defeat, DefenderLosts: defenders - effectiveAttackers}
	}
}

// Apply mutates the board and the attacker's tracked coordinate according
// to an already-computed Assault, returning the attacker's new position
// and the uuid of the player whose tiles must cascade to attackerUUID
// (non-empty only after a Kingdom Victory).
func Apply(b *Board, attackerUUID string, from, to Coord, a Assault) (newPos Coord, cascadeFrom string) {
	attackTile := b.At(from)
	defendTile := b.At(to)

	switch a.Outcome {
	case AttackingSameTile, NotEnoughTroops, BlockedByMountain, TileNotOwned:
		return from, ""

	case SelfTroopsMove:
		defendTile.Troops += a.RemainingWin
		attackTile.Troops = 1
		return to, ""

	case ConquerEmpty:
		*defendTile = Tile{
			Status: TileOccupied,
			Type:   defendTile.Type,
			Owner:  attackerUUID,
			Troops: a.RemainingWin,
		}
		attackTile.Troops = 1
		return to, ""

	case Tie:
		attackTile.Troops = 1
		defendTile.Status = TileEmpty
		defendTile.Troops = 0
		return from, ""

	case Victory, VictoryCastle:
		loser := defendTile.Owner
		newType := defendTile.Type
		if a.WasKingdom {
			newType = TileCastle
		}
		*defendTile = Tile{
			Status: TileOccupied,
			Type:   newType,
			Owner:  attackerUUID,
			Troops: a.RemainingWin,
		}
		attackTile.Troops = 1
		if a.WasKingdom {
			return to, loser
		}
		return to, ""

	case Defeat:
		attackTile.Troops = 1
		defendTile.Troops = a.DefenderLosts
		return from, ""

	default:
		return from, ""
	}
}

// Cascade reassigns every tile owned by loser to winner. Used after a
// Victory where the captured tile was a Kingdom.
func Cascade(b *Board, loser, winner string) {
	for x := range b.Tiles {
		for y := range b.Tiles[x] {
			t := &b.Tiles[x][y]
			if t.Status == TileOccupied && t.Owner == loser {
				t.Owner = winner
			}
		}
	}
}
