package client

import (
	"context"
	"errors"
	"sync"

	"github.com/yourname/symptomtracker/internal"
)

// Placeholder is shown instead of calling the API when there is nothing to analyse.
const Placeholder = "Please track some symptoms first to get AI insights."

var ErrInFlight = errors.New("client: an insight request is already pending")

type State int

const (
	StateIdle State = iota
	StatePending
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

type InsightRequester interface {
	RequestInsights(ctx context.Context, records []internal.SymptomRecord) (string, error)
}

// View is what a caller renders: the lifecycle state, the last generated
// text and the last error message (until dismissed).
type View struct {
	State    State
	Insights string
	Error    string
}

// Invoker runs at most one insight request at a time and never retries.
type Invoker struct {
	requester InsightRequester

	mu   sync.Mutex
	view View
}

func NewInvoker(r InsightRequester) *Invoker {
	return &Invoker{requester: r}
}

// Generate analyses records that the caller already holds; it does not fetch
// anything itself. While a request is pending further calls fail with
// ErrInFlight.
func (i *Invoker) Generate(ctx context.Context, records []internal.SymptomRecord) (string, error) {
	i.mu.Lock()
	if i.view.State == StatePending {
		i.mu.Unlock()
		return "", ErrInFlight
	}
	if len(records) == 0 {
		i.view.State = StateSuccess
		i.view.Insights = Placeholder
		i.mu.Unlock()
		return Placeholder, nil
	}
	i.view.State = StatePending
	i.mu.Unlock()

	text, err := i.requester.RequestInsights(ctx, records)

	i.mu.Lock()
	defer i.mu.Unlock()
	if err != nil {
		i.view.State = StateError
		i.view.Error = errorMessage(err)
		return "", err
	}
	i.view.State = StateSuccess
	i.view.Insights = text
	return text, nil
}

func errorMessage(err error) string {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Message
	}
	return err.Error()
}

func (i *Invoker) Snapshot() View {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.view
}

// Pending reports whether the trigger should be disabled.
func (i *Invoker) Pending() bool {
	return i.Snapshot().State == StatePending
}

// Dismiss hides the current error. A pending request is unaffected.
func (i *Invoker) Dismiss() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.view.Error = ""
	if i.view.State == StateError {
		i.view.State = StateIdle
	}
}
