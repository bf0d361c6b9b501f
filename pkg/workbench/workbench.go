// Package workbench is the client's action boundary. Every user gesture maps
// to one method; each method converts any failure into State.Error and never
// leaves a result slot half populated.
package workbench

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"nichelens-be/internal/pkg/logger"
	"nichelens-be/pkg/analysis"
	"nichelens-be/pkg/gateway"
	"nichelens-be/pkg/history"
	"nichelens-be/pkg/identity"
)

const logModule = "WORKBENCH"

var (
	ErrBusy         = errors.New("an analysis is already running")
	ErrNotConfirmed = errors.New("wiping the archive requires confirmation")
	// ErrStale is returned when a response arrived after the request it
	// answers was superseded. The response is dropped.
	ErrStale = errors.New("response discarded: request was superseded")
)

// SessionSource yields the current identity.
type SessionSource interface {
	Current() identity.Session
}

// StoreResolver picks the history backend for a session.
type StoreResolver interface {
	For(s identity.Session) history.Store
}

type requestTag struct {
	seq   uint64
	mode  analysis.Mode
	input string
}

type Workbench struct {
	gw       gateway.Gateway
	sessions SessionSource
	stores   StoreResolver
	log      logger.ILogger

	mu      sync.Mutex
	state   State
	seq     uint64
	pending *requestTag
}

func New(gw gateway.Gateway, sessions SessionSource, stores StoreResolver, log logger.ILogger) *Workbench {
	return &Workbench{
		gw:       gw,
		sessions: sessions,
		stores:   stores,
		log:      log,
		state:    Initial(),
	}
}

// State returns a snapshot of the current state.
func (w *Workbench) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workbench) replace(fn func(State) State) State {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = fn(w.state)
	return w.state
}

// SetMode changes the active mode. Any in-flight response no longer matches
// and will be dropped on arrival.
func (w *Workbench) SetMode(mode analysis.Mode) State {
	return w.replace(func(s State) State {
		s.Mode = mode
		return s
	})
}

func (w *Workbench) SetInput(input string) State {
	return w.replace(func(s State) State {
		s.Input = input
		return s
	})
}

func (w *Workbench) SetOutputPreference(p OutputPreference) State {
	return w.replace(func(s State) State {
		s.OutputPreference = p
		return s
	})
}

// Reset discards everything but the output preference.
func (w *Workbench) Reset() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	pref := w.state.OutputPreference
	w.state = Initial()
	w.state.OutputPreference = pref
	w.pending = nil
	return w.state
}

// Submit runs the current mode against the current input. Guide mode is a
// no-op. History is appended only after a successful, still-current result.
func (w *Workbench) Submit(ctx context.Context) (State, error) {
	current := w.State()
	mode, input := current.Mode, current.Input

	if mode == analysis.ModeGuide {
		return current, nil
	}
	if current.Loading {
		return current, ErrBusy
	}

	session := w.sessions.Current()

	normalized, err := analysis.Normalize(input, mode)
	if err != nil {
		return w.fail(err), err
	}
	req, err := analysis.Dispatch(mode, normalized, analysis.Identity{Handle: session.Handle()})
	if err != nil {
		return w.fail(err), err
	}

	tag, started := w.begin(mode, input)
	if !started {
		return w.State(), ErrBusy
	}

	res, invokeErr := w.gw.Invoke(ctx, req)

	next, err := w.finish(tag, res, invokeErr)
	if err != nil {
		return next, err
	}

	w.appendHistory(ctx, session, mode, input, res)
	return next, nil
}

func (w *Workbench) begin(mode analysis.Mode, input string) (requestTag, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.Loading {
		return requestTag{}, false
	}

	w.seq++
	tag := requestTag{seq: w.seq, mode: mode, input: input}
	w.pending = &tag

	s := w.state.clearResults()
	s.Loading = true
	s.Error = ""
	w.state = s
	return tag, true
}

func (w *Workbench) finish(tag requestTag, res analysis.Result, invokeErr error) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	current := requestTag{seq: w.seq, mode: w.state.Mode, input: w.state.Input}
	if w.pending == nil || *w.pending != tag || current != tag {
		if w.pending != nil && *w.pending == tag {
			w.pending = nil
			w.state.Loading = false
		}
		w.log.Info(logModule, "Discarded stale response", map[string]interface{}{
			"mode": tag.mode,
			"seq":  tag.seq,
		})
		return w.state, ErrStale
	}
	w.pending = nil

	if invokeErr != nil {
		s := w.state
		s.Loading = false
		s.Error = analysis.UserMessage(invokeErr)
		w.state = s
		w.log.Warn(logModule, "Analysis failed", map[string]interface{}{
			"mode":  tag.mode,
			"error": invokeErr.Error(),
		})
		return w.state, invokeErr
	}

	routed, err := Route(w.state, tag.mode, res)
	if err != nil {
		s := w.state
		s.Loading = false
		s.Error = analysis.UserMessage(err)
		w.state = s
		return w.state, err
	}
	w.state = routed
	return w.state, nil
}

func (w *Workbench) fail(err error) State {
	return w.replace(func(s State) State {
		s.Loading = false
		s.Error = analysis.UserMessage(err)
		return s
	})
}

func (w *Workbench) appendHistory(ctx context.Context, session identity.Session, mode analysis.Mode, input string, res analysis.Result) {
	store := w.stores.For(session)
	if _, err := store.Append(ctx, mode, input, res); err != nil {
		backend := "local"
		if session.UsesRemote() {
			backend = "remote"
		}
		perr := &analysis.PersistenceWriteError{Backend: backend, Err: err}
		w.log.Error(logModule, "Failed to save history", map[string]interface{}{
			"mode":  mode,
			"error": perr.Error(),
		})
	}
}

// GenerateVisual fills the visual substate only. A failure never touches the
// analysis result or the primary error.
func (w *Workbench) GenerateVisual(ctx context.Context, prompt string) (State, error) {
	w.replace(func(s State) State {
		s.Visual = VisualState{Loading: true}
		return s
	})

	img, err := w.gw.GenerateVisual(ctx, prompt)
	if err != nil {
		var visualErr *analysis.VisualGenerationError
		if !errors.As(err, &visualErr) {
			err = &analysis.VisualGenerationError{Err: err}
		}
		w.log.Warn(logModule, "Visual generation failed", map[string]interface{}{"error": err.Error()})
		return w.replace(func(s State) State {
			s.Visual = VisualState{Error: err.Error()}
			return s
		}), err
	}

	return w.replace(func(s State) State {
		s.Visual = VisualState{Image: img}
		return s
	}), nil
}

// History lists the active backend, most recent first.
func (w *Workbench) History(ctx context.Context) ([]history.Item, error) {
	items, err := w.stores.For(w.sessions.Current()).List(ctx)
	if err != nil {
		w.fail(err)
		return nil, err
	}
	return items, nil
}

// SelectHistory restores a stored item. No gateway call is made.
func (w *Workbench) SelectHistory(item history.Item) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	next, err := Restore(w.state, item)
	if err != nil {
		w.state.Error = analysis.UserMessage(err)
		return w.state, err
	}
	w.pending = nil
	w.state = next
	return w.state, nil
}

// SelectHistoryByID looks up id in the active backend and restores it.
func (w *Workbench) SelectHistoryByID(ctx context.Context, id string) (State, error) {
	items, err := w.History(ctx)
	if err != nil {
		return w.State(), err
	}
	for _, it := range items {
		if it.ID == id {
			return w.SelectHistory(it)
		}
	}
	err = fmt.Errorf("history entry %s not found", id)
	return w.fail(err), err
}

func (w *Workbench) DeleteHistory(ctx context.Context, id string) error {
	if err := w.stores.For(w.sessions.Current()).Remove(ctx, id); err != nil {
		w.fail(err)
		return err
	}
	return nil
}

// ClearHistory wipes the active backend. confirmed must come from an explicit
// user confirmation.
func (w *Workbench) ClearHistory(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	if err := w.stores.For(w.sessions.Current()).Clear(ctx); err != nil {
		w.fail(err)
		return err
	}
	return nil
}

// ArchitectFromNiche switches to ideation seeded with the niche.
func (w *Workbench) ArchitectFromNiche(niche string) State {
	return w.replace(func(s State) State {
		s.Mode = analysis.ModeIdeate
		s.Input = "Pillar content strategy for: " + niche
		return s
	})
}

// Status reports backend liveness for display only.
func (w *Workbench) Status(ctx context.Context) bool {
	return w.gw.HealthCheck(ctx)
}
