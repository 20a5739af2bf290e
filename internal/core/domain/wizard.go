package domain

import (
	"fmt"
	"sync"
)

type WizardState string

const (
	WizardUpload    WizardState = "upload"
	WizardParsing   WizardState = "parsing"
	WizardAnalyzing WizardState = "analyzing"
	WizardComplete  WizardState = "complete"
)

var wizardNext = map[WizardState]WizardState{
	WizardUpload:    WizardParsing,
	WizardParsing:   WizardAnalyzing,
	WizardAnalyzing: WizardComplete,
}

// CanTransition allows only the next adjacent step. Starting over from
// complete goes through Reset.
func CanTransition(from, to WizardState) bool {
	next, ok := wizardNext[from]
	return ok && next == to
}

// Wizard tracks one analysis session. Failures always land on upload.
type Wizard struct {
	mu       sync.Mutex
	state    WizardState
	observer func(from, to WizardState)
}

func NewWizard(observer func(from, to WizardState)) *Wizard {
	return &Wizard{state: WizardUpload, observer: observer}
}

func (w *Wizard) State() WizardState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Wizard) Advance(to WizardState) error {
	w.mu.Lock()
	from := w.state
	if !CanTransition(from, to) {
		w.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	w.state = to
	w.mu.Unlock()

	w.notify(from, to)
	return nil
}

// Start begins a new flow: a finished session first returns to upload, then
// moves to parsing. It fails while a flow is in progress.
func (w *Wizard) Start() error {
	w.mu.Lock()
	from := w.state
	if from == WizardParsing || from == WizardAnalyzing {
		w.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, WizardParsing)
	}
	w.state = WizardParsing
	w.mu.Unlock()

	if from == WizardComplete {
		w.notify(WizardComplete, WizardUpload)
	}
	w.notify(WizardUpload, WizardParsing)
	return nil
}

// Reset returns the session to upload from any state.
func (w *Wizard) Reset() {
	w.mu.Lock()
	from := w.state
	w.state = WizardUpload
	w.mu.Unlock()

	if from != WizardUpload {
		w.notify(from, WizardUpload)
	}
}

// Busy reports whether a flow is between upload and complete.
func (w *Wizard) Busy() bool {
	state := w.State()
	return state == WizardParsing || state == WizardAnalyzing
}

func (w *Wizard) notify(from, to WizardState) {
	if w.observer != nil {
		w.observer(from, to)
	}
}
