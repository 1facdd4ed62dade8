// Package buzzer turns status and fault codes into beep sequences and
// drives the tone hardware. The appliance has no display; the piezo element
// is its only user-facing output, so messages and errors use cadences
// distinct enough to tell apart by ear.
package buzzer

import "time"

// ErrorCode identifies a fault signaled with the error cadence.
type ErrorCode int

const (
	CodeGenericFault ErrorCode = 1 // hardware not idle at power-on
	CodeDrainFailure ErrorCode = 2 // tank still full after the drain window
	CodeFillTimeout  ErrorCode = 3 // base level never reached
	CodeTopUpFailure ErrorCode = 4 // level not confirmed after agitation
	CodeHeatTimeout  ErrorCode = 5 // target temperature never reached
)

// MessageCode identifies a status announcement.
type MessageCode int

const (
	MsgWelcome    MessageCode = 2
	MsgFillStart  MessageCode = 3
	MsgDrainStart MessageCode = 4
)

// Burst is N beeps of Tone length, each followed by Gap of silence.
// A burst with N == 0 plays as a plain pause of Gap.
type Burst struct {
	N    int
	Tone time.Duration
	Gap  time.Duration
}

// Duration returns the nominal play time of the burst.
func (b Burst) Duration() time.Duration {
	if b.N <= 0 {
		return b.Gap
	}
	return time.Duration(b.N) * (b.Tone + b.Gap)
}

// Chirps emitted by the control core while it waits. The patterns differ
// per stage so a listener can follow the cycle without a display.
var (
	ChirpDoubling = Burst{N: 1, Tone: 80 * time.Millisecond, Gap: 50 * time.Millisecond}
	ChirpAgitate  = Burst{N: 2, Tone: 50 * time.Millisecond, Gap: 50 * time.Millisecond}
	ChirpTopUp    = Burst{N: 1, Tone: 50 * time.Millisecond, Gap: 50 * time.Millisecond}
	ChirpHeating  = Burst{N: 1, Tone: 150 * time.Millisecond, Gap: 50 * time.Millisecond}
	ChirpAction   = Burst{N: 3, Tone: 150 * time.Millisecond, Gap: 50 * time.Millisecond}
	ChirpRinse    = Burst{N: 5, Tone: 80 * time.Millisecond, Gap: 50 * time.Millisecond}
	ChirpDone     = Burst{N: 20, Tone: 50 * time.Millisecond, Gap: 50 * time.Millisecond}
)

// Annunciator plays beep sequences. Calls block until the sequence has
// played; virtual implementations return immediately.
type Annunciator interface {
	// Beep plays one raw burst.
	Beep(b Burst)

	// Message plays the announcement cadence: two long beeps, then the
	// code as short beeps.
	Message(code MessageCode)

	// Error plays the fault cadence: ten rapid beeps, a pause, then the
	// code as long beeps.
	Error(code ErrorCode)
}

// ErrorPreamble is the rapid burst that opens every fault cadence.
var ErrorPreamble = Burst{N: 10, Tone: 50 * time.Millisecond, Gap: 50 * time.Millisecond}

// MessageBursts returns the burst sequence of the announcement cadence.
func MessageBursts(code MessageCode) []Burst {
	return []Burst{
		{N: 2, Tone: 350 * time.Millisecond, Gap: 220 * time.Millisecond},
		{N: int(code), Tone: 150 * time.Millisecond, Gap: 50 * time.Millisecond},
	}
}

// ErrorBursts returns the burst sequence of the fault cadence.
func ErrorBursts(code ErrorCode) []Burst {
	return []Burst{
		ErrorPreamble,
		{N: 0, Gap: 100 * time.Millisecond},
		{N: int(code), Tone: 500 * time.Millisecond, Gap: 300 * time.Millisecond},
	}
}
