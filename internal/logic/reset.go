package logic

import "time"

// Reset drives every actuator to its off state in a fixed order, pausing
// settle between steps so the relay coils never switch together.
//
// The heater leads: it must be de-energized before anything changes how
// water moves. The main pump trails: while running it keeps the level
// drawn down, and a reset usually precedes a drain, so it keeps working
// until the last step. A zero settle performs the same sequence without
// pauses.
func Reset(p Plant, settle time.Duration) {
	p.Act.SetHeater(false)
	p.Clk.Sleep(settle)
	p.Act.SetValve(false)
	p.Clk.Sleep(settle)
	p.Act.SetDrainPump(false)
	p.Clk.Sleep(settle)
	p.Act.SetSoapDispenser(false)
	p.Clk.Sleep(settle)
	p.Act.SetIndicator(false)
	p.Clk.Sleep(settle)
	p.Act.SetMainPump(false)
	p.Clk.Sleep(settle)
}
