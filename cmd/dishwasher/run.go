package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cristianszwarc/dishwasher/internal/buzzer"
	"github.com/cristianszwarc/dishwasher/internal/clock"
	"github.com/cristianszwarc/dishwasher/internal/config"
	"github.com/cristianszwarc/dishwasher/internal/gpio"
	"github.com/cristianszwarc/dishwasher/internal/logger"
	"github.com/cristianszwarc/dishwasher/internal/logic"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the controller on real hardware",
	Long: `run drives the appliance through the GPIO character device. It owns
the machine until the power goes: a latched fault or a finished load both
signal until the process is stopped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := logger.New(cfg.LogLevel)
		defer func() { _ = log.Sync() }()
		return runReal(cfg, log)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runReal(cfg config.Config, log *zap.SugaredLogger) error {
	clk := clock.Real{}

	bus, err := gpio.NewReal(cfg.GPIO.Chip, cfg.GPIO.Pins, cfg.Sensor.TemperatureRawPath, clk, log)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer func() {
		if err := bus.Close(); err != nil {
			log.Errorw("gpio close failed", "err", err)
		}
	}()

	ann, err := buzzer.NewTone(cfg.GPIO.Chip, cfg.Buzzer.Pin, cfg.Buzzer.ToneHz, clk)
	if err != nil {
		return fmt.Errorf("init buzzer: %w", err)
	}
	defer func() {
		if err := ann.Close(); err != nil {
			log.Errorw("buzzer close failed", "err", err)
		}
	}()

	plant := logic.Plant{Act: bus, Sense: bus, Ann: ann, Clk: clk}

	// Whatever way the process leaves, the relays end up de-energized.
	defer logic.Reset(plant, 0)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infow("controller starting", "chip", cfg.GPIO.Chip)
	seq := logic.NewSequencer(plant, cfg.Timing, log)
	if err := seq.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
