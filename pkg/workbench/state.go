package workbench

import (
	"fmt"

	"nichelens-be/pkg/analysis"
	"nichelens-be/pkg/history"
)

type OutputPreference string

const (
	PreferTweet   OutputPreference = "tweet"
	PreferBullets OutputPreference = "bullets"
)

func ParseOutputPreference(s string) (OutputPreference, bool) {
	switch OutputPreference(s) {
	case PreferTweet, PreferBullets:
		return OutputPreference(s), true
	}
	return "", false
}

// VisualState tracks image generation apart from the analysis result.
type VisualState struct {
	Loading bool
	Image   string
	Error   string
}

// State is the full application state. It is replaced wholesale on every
// transition; at most one result slot is non-nil.
type State struct {
	Mode             analysis.Mode
	Input            string
	OutputPreference OutputPreference

	Loading bool
	Error   string
	Visual  VisualState

	Optimization *analysis.OptimizationResult
	Reply        *analysis.ReplyResult
	Audit        *analysis.ProfileAuditResult
	Niche        *analysis.NicheAnalysisResult
	Idea         *analysis.IdeaGenerationResult
}

// Initial is the state at process start.
func Initial() State {
	return State{Mode: analysis.ModeGuide, OutputPreference: PreferTweet}
}

// Result returns the populated slot, if any.
func (s State) Result() analysis.Result {
	switch {
	case s.Optimization != nil:
		return s.Optimization
	case s.Reply != nil:
		return s.Reply
	case s.Audit != nil:
		return s.Audit
	case s.Niche != nil:
		return s.Niche
	case s.Idea != nil:
		return s.Idea
	}
	return nil
}

// PopulatedSlots counts non-nil result slots.
func (s State) PopulatedSlots() int {
	n := 0
	if s.Optimization != nil {
		n++
	}
	if s.Reply != nil {
		n++
	}
	if s.Audit != nil {
		n++
	}
	if s.Niche != nil {
		n++
	}
	if s.Idea != nil {
		n++
	}
	return n
}

func (s State) clearResults() State {
	s.Optimization = nil
	s.Reply = nil
	s.Audit = nil
	s.Niche = nil
	s.Idea = nil
	s.Visual = VisualState{}
	return s
}

// Route places result in the slot for mode and clears the other four.
func Route(s State, mode analysis.Mode, result analysis.Result) (State, error) {
	if result == nil {
		return s, fmt.Errorf("no result to route for mode %s", mode)
	}
	if result.Mode() != mode {
		return s, fmt.Errorf("result for %s cannot be routed to %s", result.Mode(), mode)
	}

	next := s.clearResults()
	next.Loading = false
	next.Error = ""

	switch r := result.(type) {
	case *analysis.OptimizationResult:
		next.Optimization = r
	case *analysis.ReplyResult:
		next.Reply = r
	case *analysis.ProfileAuditResult:
		next.Audit = r
	case *analysis.NicheAnalysisResult:
		next.Niche = r
	case *analysis.IdeaGenerationResult:
		next.Idea = r
	default:
		return s, &analysis.UnsupportedModeError{Mode: mode}
	}
	return next, nil
}

// Restore routes a stored item without a gateway call and makes its mode and
// input the current editable state.
func Restore(s State, item history.Item) (State, error) {
	next, err := Route(s, item.Mode, item.Result)
	if err != nil {
		return s, err
	}
	next.Mode = item.Mode
	next.Input = item.Input
	return next, nil
}
