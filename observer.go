package pdf417go

import "log/slog"

// Stage names a step of the decoding pipeline.
type Stage string

const (
	StageBinarize   Stage = "binarize"
	StageLocate     Stage = "locate"
	StageIndicators Stage = "indicators"
	StageTransform  Stage = "transform"
	StageCodewords  Stage = "codewords"
	StageCorrect    Stage = "correct"
	StageData       Stage = "data"
	StageResult     Stage = "result"
)

// Event is a diagnostic report from one pipeline stage.
type Event struct {
	Stage   Stage
	Message string
	// Err is set when the stage failed. Failures of one candidate symbol do
	// not stop the others.
	Err   error
	Attrs []slog.Attr
}

// Failed reports whether the event describes a failure.
func (e Event) Failed() bool { return e.Err != nil }

// Observer receives pipeline events. Implementations must be safe for
// concurrent use when candidates are decoded in parallel.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) { f(e) }

type nopObserver struct{}

func (nopObserver) Observe(Event) {}

// NopObserver discards every event.
var NopObserver Observer = nopObserver{}

// MultiObserver fans events out to several observers.
func MultiObserver(observers ...Observer) Observer {
	return ObserverFunc(func(e Event) {
		for _, o := range observers {
			o.Observe(e)
		}
	})
}
