package logic

import "time"

// Timings are the calibration constants of the control core. The fill
// extrapolation multiples are tied to the tank geometry above the level
// switch and were fixed empirically on the reference machine; treat them as
// calibration, not as arithmetic to re-derive.
type Timings struct {
	// Base fill: poll spacing and the hard deadline for reaching the
	// level switch.
	BasePoll    time.Duration `mapstructure:"base_poll"`
	FillTimeout time.Duration `mapstructure:"fill_timeout"`

	// Extrapolated fill stages, all multiples of the measured base fill
	// time: the still-water doubling, the pump-on fill (base divided by
	// AgitateDivisor) and the bounded top-up poll.
	DoubleFactor   float64 `mapstructure:"double_factor"`
	AgitateDivisor float64 `mapstructure:"agitate_divisor"`
	TopUpFactor    float64 `mapstructure:"top_up_factor"`

	// Chirp pacing inside the fill stages.
	DoublePace  time.Duration `mapstructure:"double_pace"`
	AgitatePace time.Duration `mapstructure:"agitate_pace"`
	TopUpPace   time.Duration `mapstructure:"top_up_pace"`

	// FillSettle is the pause after the intake valve closes.
	FillSettle time.Duration `mapstructure:"fill_settle"`

	// DrainWindow is the fixed pump-out time; the dryness check runs
	// after it.
	DrainWindow time.Duration `mapstructure:"drain_window"`

	// Soap dispenser pulse and the pause after it.
	SoapPulse  time.Duration `mapstructure:"soap_pulse"`
	SoapSettle time.Duration `mapstructure:"soap_settle"`

	// Heating: pause after energizing the heater, the total heating
	// budget per cycle, and the wash heartbeat half-period.
	HeaterSettle  time.Duration `mapstructure:"heater_settle"`
	HeaterTimeout time.Duration `mapstructure:"heater_timeout"`
	WashPulse     time.Duration `mapstructure:"wash_pulse"`

	// Per-step settles of the safety reset in its three contexts.
	ResetSettleFill  time.Duration `mapstructure:"reset_settle_fill"`
	ResetSettleDrain time.Duration `mapstructure:"reset_settle_drain"`
	ResetSettleFault time.Duration `mapstructure:"reset_settle_fault"`

	// Idle loop: button poll spacing and the hold length that selects
	// the rinse program.
	IdlePoll   time.Duration `mapstructure:"idle_poll"`
	HoldWindow time.Duration `mapstructure:"hold_window"`

	// Terminal loops: spacing of the repeated fault code and of the
	// completion bursts.
	FaultPace time.Duration `mapstructure:"fault_pace"`
	DonePace  time.Duration `mapstructure:"done_pace"`
}

// DefaultTimings returns the shipped calibration.
func DefaultTimings() Timings {
	return Timings{
		BasePoll:    10 * time.Millisecond,
		FillTimeout: 200 * time.Second,

		DoubleFactor:   1.0,
		AgitateDivisor: 1.5,
		TopUpFactor:    1.5,

		DoublePace:  time.Second,
		AgitatePace: 800 * time.Millisecond,
		TopUpPace:   400 * time.Millisecond,

		FillSettle: time.Second,

		DrainWindow: 22 * time.Second,

		SoapPulse:  200 * time.Millisecond,
		SoapSettle: time.Second,

		HeaterSettle:  time.Second,
		HeaterTimeout: 600 * time.Second,
		WashPulse:     time.Second,

		ResetSettleFill:  200 * time.Millisecond,
		ResetSettleDrain: time.Second,
		ResetSettleFault: 500 * time.Millisecond,

		IdlePoll:   100 * time.Millisecond,
		HoldWindow: 2 * time.Second,

		FaultPace: 2 * time.Second,
		DonePace:  100 * time.Millisecond,
	}
}

func mul(d time.Duration, factor float64) time.Duration {
	return time.Duration(float64(d) * factor)
}

func div(d time.Duration, divisor float64) time.Duration {
	if divisor == 0 {
		return d
	}
	return time.Duration(float64(d) / divisor)
}
