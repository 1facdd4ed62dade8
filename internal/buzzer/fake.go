package buzzer

// Fake records annunciator calls for assertions. It plays nothing and takes
// no time, so control timing measured around it reflects only the waits the
// core itself requested.
type Fake struct {
	Beeps []Burst
	Msgs  []MessageCode
	Errs  []ErrorCode
}

// NewFake returns an empty recording annunciator.
func NewFake() *Fake {
	return &Fake{}
}

func (f *Fake) Beep(b Burst) {
	f.Beeps = append(f.Beeps, b)
}

func (f *Fake) Message(code MessageCode) {
	f.Msgs = append(f.Msgs, code)
}

func (f *Fake) Error(code ErrorCode) {
	f.Errs = append(f.Errs, code)
}

// MsgCount returns how often code was announced.
func (f *Fake) MsgCount(code MessageCode) int {
	n := 0
	for _, c := range f.Msgs {
		if c == code {
			n++
		}
	}
	return n
}

// ErrCount returns how often code was signaled.
func (f *Fake) ErrCount(code ErrorCode) int {
	n := 0
	for _, c := range f.Errs {
		if c == code {
			n++
		}
	}
	return n
}

// BeepCount returns how often exactly b was played.
func (f *Fake) BeepCount(b Burst) int {
	n := 0
	for _, got := range f.Beeps {
		if got == b {
			n++
		}
	}
	return n
}

// Reset clears all recorded calls.
func (f *Fake) Reset() {
	f.Beeps = nil
	f.Msgs = nil
	f.Errs = nil
}
