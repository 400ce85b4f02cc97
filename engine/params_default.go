// params_default.go fills the parameter vector with the built-in values.
// The layout here must follow the registration order in params.go; the
// cursor check at the end catches any drift.

package engine

import "github.com/ternengine/tern/board"

func setOne(n int, s Score) int {
	Weights[n] = s
	return n + 1
}

func setMany(n int, s []Score) int {
	copy(Weights[n:], s)
	return n + len(s)
}

func setPSQT(n int, fig board.Figure) int {
	// The literal tables read rank 8 first; the vector is indexed from
	// White's point of view with a1 = 0. The files are averaged with
	// their mirror so the evaluation has no left/right bias.
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			idx := (7-r)*8 + f
			mir := (7-r)*8 + (7 - f)
			Weights[n+r*8+f] = Score{
				M: (psqtMG[fig][idx] + psqtMG[fig][mir]) / 2,
				E: (psqtEG[fig][idx] + psqtEG[fig][mir]) / 2,
			}
		}
	}
	return n + 64
}

func initDefaultWeights() {
	n := 0
	n = setOne(n, Score{20, 10}) // tempo

	// Shielding pawns missing in front of the king.
	n = setMany(n, []Score{{0, 0}, {-22, -5}, {-45, -10}, {-65, -15}})
	n = setMany(n, []Score{{0, 0}, {-35, -8}, {-70, -15}, {-105, -25}})

	n = setOne(n, Score{-12, -22}) // doubled pawn
	n = setOne(n, Score{-14, -10}) // isolated pawn
	n = setOne(n, Score{-10, -14}) // backward pawn

	// Supported pawn bonus by square.
	n = setMany(n, supportedPawnTable())

	n = setOne(n, Score{10, 2}) // pawn attacks a center square
	n = setOne(n, Score{4, 8})  // pawn mobility

	// Passed pawn tables by rank.
	n = setMany(n, []Score{{0, 0}, {-5, 8}, {-8, 14}, {2, 36}, {26, 72}, {74, 140}, {130, 230}})
	n = setMany(n, []Score{{0, 0}, {2, 4}, {3, 8}, {6, 18}, {14, 38}, {34, 90}, {70, 150}})
	n = setMany(n, []Score{{0, 0}, {2, 4}, {0, 2}, {-2, -6}, {-5, -16}, {-9, -28}, {-12, -38}})
	n = setMany(n, []Score{{0, 0}, {-3, -6}, {-1, 2}, {2, 10}, {5, 22}, {9, 36}, {12, 48}})
	n = setMany(n, subDistanceTable())

	n = setOne(n, Score{12, 34})   // own rook behind the passer
	n = setOne(n, Score{-10, -28}) // enemy rook behind the passer
	n = setOne(n, Score{-6, -20})  // weak passer

	n = setOne(n, Score{12, 6}) // knight supported by a pawn
	n = setMany(n, knightOutpostTable())

	n = setOne(n, Score{42, 10}) // rook on open file
	n = setOne(n, Score{18, 8})  // rook on semi open file
	n = setOne(n, Score{10, 2})  // queen on open file
	n = setOne(n, Score{5, 3})   // queen on semi open file
	n = setOne(n, Score{22, 34}) // rook on seventh rank

	// Piece base values.
	n = setMany(n, []Score{
		{0, 0},       // no figure
		{96, 128},    // pawn
		{416, 425},   // knight
		{441, 468},   // bishop
		{605, 755},   // rook
		{1280, 1400}, // queen
		{0, 0},       // king
	})

	n = setMany(n, knightValueWithPawnsTable())

	n = setOne(n, Score{38, 62}) // bishop pair
	n = setMany(n, []Score{{12, 18}, {5, 8}, {-2, -4}, {-10, -16}, {-18, -28}})

	n = setMany(n, mobilityRamp(9, -30, 9, -32, 8))
	n = setMany(n, mobilityRamp(14, -24, 6, -30, 7))
	n = setMany(n, mobilityRamp(15, -28, 4, -34, 7))
	n = setMany(n, mobilityRamp(28, -16, 2, -22, 4))

	// King attack weight as a percentage by number of attackers.
	n = setMany(n, []Score{{0, 0}, {18, 18}, {55, 55}, {78, 78}, {90, 90}, {96, 96}, {99, 99}, {100, 100}})
	n = setMany(n, safetyCurve())

	n = setOne(n, Score{18, 18}) // knight attack near the king
	n = setOne(n, Score{14, 14}) // bishop attack
	n = setOne(n, Score{26, 26}) // rook attack
	n = setOne(n, Score{40, 40}) // queen attack
	n = setOne(n, Score{24, 24}) // safe knight check
	n = setOne(n, Score{12, 12}) // safe bishop check
	n = setOne(n, Score{30, 30}) // safe rook check
	n = setOne(n, Score{36, 36}) // safe queen check

	for fig := board.FigureMinValue; fig <= board.FigureMaxValue; fig++ {
		n = setPSQT(n, fig)
	}

	n = setOne(n, Score{28, 28}) // slightly winning, no own pawns left
	n = setOne(n, Score{40, 40}) // slightly winning, enemy can sacrifice into a dead draw

	if n != NumWeights {
		log.Fatalf("default weights fill %d entries, expected %d", n, NumWeights)
	}
}

// supportedPawnTable rewards defended pawns, more so for advanced and
// central ones.
func supportedPawnTable() []Score {
	t := make([]Score, 64)
	for sq := 0; sq < 64; sq++ {
		r, f := int32(sq/8), int32(sq%8)
		if r == 0 || r == 7 {
			continue
		}
		center := 2 - (absInt32(2*f-7)+1)/2
		if center < 0 {
			center = 0
		}
		t[sq] = Score{M: 8 + 4*(r-1) + 2*center, E: 4 + 3*(r-1)}
	}
	return t
}

// subDistanceTable is indexed by enemy king distance minus own king
// distance to the passer, shifted by 6 into 0..12.
func subDistanceTable() []Score {
	t := make([]Score, 13)
	for i := range t {
		d := int32(i - 6)
		t[i] = Score{M: 2 * d, E: 9 * d}
	}
	return t
}

// knightOutpostTable rewards outposts on the opponent's side of the
// board, strongest on central files.
func knightOutpostTable() []Score {
	t := make([]Score, 64)
	for sq := 0; sq < 64; sq++ {
		r, f := int32(sq/8), int32(sq%8)
		if r < 3 || r > 5 {
			continue
		}
		center := 3 - (absInt32(2*f-7)+1)/2
		if center < 0 {
			center = 0
		}
		t[sq] = Score{M: 10 + 8*center + 6*(r-3), E: 4 + 4*center}
	}
	return t
}

// knightValueWithPawnsTable scales the knight by the own pawn count:
// knights lose value as pawns disappear.
func knightValueWithPawnsTable() []Score {
	t := make([]Score, 17)
	for i := range t {
		v := int32(i-8) * 4
		t[i] = Score{M: v, E: v * 2}
	}
	return t
}

// mobilityRamp builds a mobility table of n entries starting at (m0, e0)
// and increasing by (dm, de) per reachable square.
func mobilityRamp(n int, m0, dm, e0, de int32) []Score {
	t := make([]Score, n)
	for i := range t {
		t[i] = Score{M: m0 + dm*int32(i), E: e0 + de*int32(i)}
	}
	return t
}

// safetyCurve is the classic quadratic king attack curve, capped.
func safetyCurve() []Score {
	t := make([]Score, 100)
	for i := range t {
		v := min(int32(i*i)/2, 500)
		t[i] = Score{M: v, E: v / 2}
	}
	return t
}

func absInt32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}
