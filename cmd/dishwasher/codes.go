package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cristianszwarc/dishwasher/internal/buzzer"
)

var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "List the audible status and fault codes",
	Long: `codes prints the beep vocabulary of the appliance. Messages open with
two long beeps, faults with ten rapid ones; the beeps that follow count
out the code.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Messages (two long beeps, then the code):")
		for _, m := range []struct {
			code buzzer.MessageCode
			text string
		}{
			{buzzer.MsgWelcome, "ready for a load"},
			{buzzer.MsgFillStart, "fill starting"},
			{buzzer.MsgDrainStart, "drain starting"},
		} {
			fmt.Fprintf(out, "  %d  %s\n", int(m.code), m.text)
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Faults (ten rapid beeps, a pause, then the code):")
		for _, f := range []struct {
			code buzzer.ErrorCode
			text string
		}{
			{buzzer.CodeGenericFault, "switch held or hardware not idle at power-on"},
			{buzzer.CodeDrainFailure, "water still present after the drain window"},
			{buzzer.CodeFillTimeout, "base water level never reached"},
			{buzzer.CodeTopUpFailure, "water level lost after agitation"},
			{buzzer.CodeHeatTimeout, "target temperature not reached in time"},
		} {
			fmt.Fprintf(out, "  %d  %s\n", int(f.code), f.text)
		}
	},
}

func init() {
	rootCmd.AddCommand(codesCmd)
}
