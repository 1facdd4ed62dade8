package logic

import "time"

// CycleSpec describes one cycle of a program.
type CycleSpec struct {
	// Wash is the time to spend washing at temperature.
	Wash time.Duration
	// Soap doses the dispenser once after the fill.
	Soap bool
	// TargetTemp is the raw ADC threshold to heat to; zero disables the
	// heater for the cycle.
	TargetTemp int
}

// Program is a named sequence of cycles run back to back.
type Program struct {
	Name   string
	Cycles []CycleSpec
}

// RinseProgram is the short program: a single unheated five minute cycle.
func RinseProgram() Program {
	return Program{
		Name:   "rinse",
		Cycles: []CycleSpec{{Wash: 5 * time.Minute}},
	}
}

// WashProgram is the full program: a short prewash, the long soaped wash,
// a heated rinse and a final cold rinse.
func WashProgram() Program {
	return Program{
		Name: "wash",
		Cycles: []CycleSpec{
			{Wash: 3 * time.Minute, TargetTemp: 950},
			{Wash: 15 * time.Minute, Soap: true, TargetTemp: 950},
			{Wash: 3 * time.Minute, TargetTemp: 950},
			{Wash: 3 * time.Minute},
		},
	}
}
