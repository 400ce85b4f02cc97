// logger.go reports search progress. The line format is the one the
// text protocol layer forwards verbatim to the GUI.

package engine

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ternengine/tern/board"
)

// SearchInfo is a snapshot of the search sent with every best PV update.
type SearchInfo struct {
	Depth    int32
	SelDepth int32
	Nodes    uint64
	NPS      uint64
	Hashfull int
	Time     time.Duration
	Score    int32
	PV       []board.Move
}

// Logger receives search progress.
type Logger interface {
	// BeginSearch signals that a new search is started.
	BeginSearch()
	// EndSearch signals the end of the search.
	EndSearch()
	// ReportPV logs a new best principal variation.
	ReportPV(info SearchInfo)
	// ReportBestMove logs the move played, with its ponder move if any.
	ReportBestMove(best, ponder board.Move)
}

// NulLogger discards everything.
type NulLogger struct{}

func (*NulLogger) BeginSearch()                           {}
func (*NulLogger) EndSearch()                             {}
func (*NulLogger) ReportPV(SearchInfo)                    {}
func (*NulLogger) ReportBestMove(best, ponder board.Move) {}

// InfoLogger writes the standard line oriented search output:
//
//	info depth D seldepth S nodes N nps R hashfull H time T score cp C pv ...
//	bestmove M [ponder M']
type InfoLogger struct {
	W io.Writer

	printer *message.Printer
	started time.Time
	nodes   uint64
}

// NewInfoLogger returns an InfoLogger writing to w.
func NewInfoLogger(w io.Writer) *InfoLogger {
	return &InfoLogger{
		W:       w,
		printer: message.NewPrinter(language.English),
	}
}

func (il *InfoLogger) BeginSearch() {
	il.started = time.Now()
	il.nodes = 0
}

func (il *InfoLogger) EndSearch() {
	elapsed := time.Since(il.started)
	log.Infof("searched %s nodes in %v", il.printer.Sprintf("%d", il.nodes), elapsed.Round(time.Millisecond))
}

func (il *InfoLogger) ReportPV(info SearchInfo) {
	il.nodes = info.Nodes
	fmt.Fprintf(il.W, "info depth %d seldepth %d nodes %d nps %d hashfull %d time %d score %s pv",
		info.Depth, info.SelDepth, info.Nodes, info.NPS, info.Hashfull,
		info.Time.Milliseconds(), formatScore(info.Score))
	for _, m := range info.PV {
		fmt.Fprintf(il.W, " %v", m)
	}
	fmt.Fprintln(il.W)
}

func (il *InfoLogger) ReportBestMove(best, ponder board.Move) {
	if ponder != board.NullMove {
		fmt.Fprintf(il.W, "bestmove %v ponder %v\n", best, ponder)
	} else {
		fmt.Fprintf(il.W, "bestmove %v\n", best)
	}
}

// formatScore renders centipawns, or moves to mate when the score is a
// mate score.
func formatScore(score int32) string {
	if score > KnownWinScore {
		return fmt.Sprintf("mate %d", (MateScore-score+1)/2)
	}
	if score < KnownLossScore {
		return fmt.Sprintf("mate %d", -(MateScore+score+1)/2)
	}
	return fmt.Sprintf("cp %d", score)
}
