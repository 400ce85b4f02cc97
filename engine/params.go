// params.go defines the evaluation parameter vector.
//
// All evaluation terms live in one flat array of (midgame, endgame) pairs
// so the evaluation stays a linear function of the parameters and an
// offline texel-style tuner can rewrite them wholesale. Named views are
// registered over chunks of the flat array; search code reads the views,
// never raw offsets.

package engine

import (
	"bufio"
	"fmt"
	"io"

	"github.com/ternengine/tern/board"
)

// NumWeights is the total number of (mg, eg) parameter pairs.
const NumWeights = 790

var (
	// Weights stores all evaluation parameters in one array for easy
	// handling by the tuner. The evaluation is a single layer network
	// y = W_m*x*(1-p) + W_e*x*p where p is the game phase.
	Weights [NumWeights]Score

	// FeatureNames has a stable name for every weight, used by the
	// parameter file format.
	FeatureNames [NumWeights]string

	// Named views over chunks of Weights.

	wTempo                 Score
	wShieldMissing         [4]Score // by number of missing shielding pawns
	wShieldMissingOnOpen   [4]Score // same, counting only open files
	wPawnDoubled           Score
	wPawnIsolated          Score
	wPawnBackward          Score
	wPawnSupported         [64]Score // by supported pawn square, own POV
	wPawnAttackCenter      Score
	wPawnMobility          Score
	wPassedPawn            [7]Score // by rank
	wPassedPawnNotBlocked  [7]Score
	wPassedKingDistance    [7]Score  // by own king distance to the passer
	wPassedEnemyKingDist   [7]Score  // by enemy king distance to the passer
	wPassedSubDistance     [13]Score // by enemy minus own king distance, shifted
	wRookBehindOwnPasser   Score
	wRookBehindEnemyPasser Score
	wPassedWeak            Score
	wKnightSupported       Score
	wKnightOutpost         [64]Score // by knight square, own POV
	wRookOnOpenFile        Score
	wRookOnSemiOpenFile    Score
	wQueenOnOpenFile       Score
	wQueenOnSemiOpenFile   Score
	wRookOnSeventh         Score
	wFigure                [board.FigureArraySize]Score // piece base values
	wKnightValueWithPawns  [17]Score                    // by own pawn count
	wBishopPair            Score
	wBishopAdjacentPawns   [5]Score // by own pawns on diagonally adjacent squares
	wKnightMobility        [9]Score
	wBishopMobility        [14]Score
	wRookMobility          [15]Score
	wQueenMobility         [28]Score
	wKingAttackWeight      [8]Score   // by number of attackers, capped
	wSafetyTable           [100]Score // king safety curve
	wKnightAttackValue     Score
	wBishopAttackValue     Score
	wRookAttackValue       Score
	wQueenAttackValue      Score
	wKnightCheckValue      Score
	wBishopCheckValue      Score
	wRookCheckValue        Score
	wQueenCheckValue       Score
	wPSQT                  [board.FigureArraySize][64]Score // white POV
	wSlightlyWinningNoPawn Score                            // endgame dampener, M is a percentage
	wSlightlyWinningCanSac Score                            // endgame dampener, M is a percentage
)

// registerMany registers a slice of weights under name.
func registerMany(n int, name string, out []Score) int {
	for i := range out {
		out[i] = Weights[n+i]
		FeatureNames[n+i] = fmt.Sprint(name, ".", i)
	}
	return n + len(out)
}

// registerOne registers a single weight under name.
func registerOne(n int, name string, out *Score) int {
	*out = Weights[n]
	FeatureNames[n] = name
	return n + 1
}

// registerAll assigns the named views over Weights. Called again after
// the vector is replaced by ReadParameters.
func registerAll() {
	n := 0
	n = registerOne(n, "Tempo", &wTempo)
	n = registerMany(n, "ShieldMissing", wShieldMissing[:])
	n = registerMany(n, "ShieldMissingOnOpen", wShieldMissingOnOpen[:])
	n = registerOne(n, "PawnDoubled", &wPawnDoubled)
	n = registerOne(n, "PawnIsolated", &wPawnIsolated)
	n = registerOne(n, "PawnBackward", &wPawnBackward)
	n = registerMany(n, "PawnSupported", wPawnSupported[:])
	n = registerOne(n, "PawnAttackCenter", &wPawnAttackCenter)
	n = registerOne(n, "PawnMobility", &wPawnMobility)
	n = registerMany(n, "PassedPawn", wPassedPawn[:])
	n = registerMany(n, "PassedPawnNotBlocked", wPassedPawnNotBlocked[:])
	n = registerMany(n, "PassedKingDistance", wPassedKingDistance[:])
	n = registerMany(n, "PassedEnemyKingDistance", wPassedEnemyKingDist[:])
	n = registerMany(n, "PassedSubDistance", wPassedSubDistance[:])
	n = registerOne(n, "RookBehindOwnPasser", &wRookBehindOwnPasser)
	n = registerOne(n, "RookBehindEnemyPasser", &wRookBehindEnemyPasser)
	n = registerOne(n, "PassedWeak", &wPassedWeak)
	n = registerOne(n, "KnightSupported", &wKnightSupported)
	n = registerMany(n, "KnightOutpost", wKnightOutpost[:])
	n = registerOne(n, "RookOnOpenFile", &wRookOnOpenFile)
	n = registerOne(n, "RookOnSemiOpenFile", &wRookOnSemiOpenFile)
	n = registerOne(n, "QueenOnOpenFile", &wQueenOnOpenFile)
	n = registerOne(n, "QueenOnSemiOpenFile", &wQueenOnSemiOpenFile)
	n = registerOne(n, "RookOnSeventh", &wRookOnSeventh)
	n = registerMany(n, "Figure", wFigure[:])
	n = registerMany(n, "KnightValueWithPawns", wKnightValueWithPawns[:])
	n = registerOne(n, "BishopPair", &wBishopPair)
	n = registerMany(n, "BishopAdjacentPawns", wBishopAdjacentPawns[:])
	n = registerMany(n, "KnightMobility", wKnightMobility[:])
	n = registerMany(n, "BishopMobility", wBishopMobility[:])
	n = registerMany(n, "RookMobility", wRookMobility[:])
	n = registerMany(n, "QueenMobility", wQueenMobility[:])
	n = registerMany(n, "KingAttackWeight", wKingAttackWeight[:])
	n = registerMany(n, "SafetyTable", wSafetyTable[:])
	n = registerOne(n, "KnightAttackValue", &wKnightAttackValue)
	n = registerOne(n, "BishopAttackValue", &wBishopAttackValue)
	n = registerOne(n, "RookAttackValue", &wRookAttackValue)
	n = registerOne(n, "QueenAttackValue", &wQueenAttackValue)
	n = registerOne(n, "KnightCheckValue", &wKnightCheckValue)
	n = registerOne(n, "BishopCheckValue", &wBishopCheckValue)
	n = registerOne(n, "RookCheckValue", &wRookCheckValue)
	n = registerOne(n, "QueenCheckValue", &wQueenCheckValue)
	for fig := board.FigureMinValue; fig <= board.FigureMaxValue; fig++ {
		n = registerMany(n, fmt.Sprintf("PSQT[%d]", fig), wPSQT[fig][:])
	}
	n = registerOne(n, "SlightlyWinningNoPawn", &wSlightlyWinningNoPawn)
	n = registerOne(n, "SlightlyWinningCanSac", &wSlightlyWinningCanSac)

	if n != NumWeights {
		log.Fatalf("registered %d weights, expected %d", n, NumWeights)
	}
}

func init() {
	initDefaultWeights()
	registerAll()
}

// WriteParameters dumps the parameter vector as plain text, one entry per
// line, in registration order. ReadParameters followed by WriteParameters
// reproduces the input byte for byte.
func WriteParameters(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i := range Weights {
		if _, err := fmt.Fprintf(bw, "%s %d %d\n", FeatureNames[i], Weights[i].M, Weights[i].E); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadParameters replaces the parameter vector with the dump read from r.
// The names must appear in registration order.
func ReadParameters(r io.Reader) error {
	scan := bufio.NewScanner(r)
	i := 0
	for scan.Scan() {
		line := scan.Text()
		if line == "" {
			continue
		}
		if i >= NumWeights {
			return fmt.Errorf("too many parameters, expected %d", NumWeights)
		}
		var name string
		var m, e int32
		if _, err := fmt.Sscanf(line, "%s %d %d", &name, &m, &e); err != nil {
			return fmt.Errorf("parameter %d: %v", i, err)
		}
		if name != FeatureNames[i] {
			return fmt.Errorf("parameter %d: got %q, expected %q", i, name, FeatureNames[i])
		}
		Weights[i] = Score{M: m, E: e}
		i++
	}
	if err := scan.Err(); err != nil {
		return err
	}
	if i != NumWeights {
		return fmt.Errorf("got %d parameters, expected %d", i, NumWeights)
	}
	registerAll()
	return nil
}
