// Command doughman issues one operation to the rangefinder and exits.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rberger/dough-man/internal/logging"
	"github.com/rberger/dough-man/modern"
	serialpkg "github.com/rberger/dough-man/serial"
	"github.com/rberger/dough-man/ui"
)

type options struct {
	configPath string
	returnRate string
	mode       string
	op         string
}

// loggedError has already been reported through the logger.
type loggedError struct{ error }

func newRootCmd(out io.Writer) *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:   "doughman",
		Short: "Send commands to a VL53 laser rangefinder over serial",
		Long: `doughman talks to a VL53 time-of-flight rangefinder on a serial port.
It resets the sensor, switches its interface mode, reads or sets the
return rate, or streams distance readings until interrupted.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, out, &o)
		},
	}
	cmd.SetOut(out)

	f := cmd.Flags()
	f.StringVar(&o.configPath, "config", "", "Config file (default ./doughman.yaml or ~/.config/doughman/doughman.yaml)")
	f.String("serial-port", modern.DefaultSerialPort, "The serial port to connect to.")
	f.Int("baud-rate", modern.DefaultBaudRate, "The baud rate to use.")
	f.Int("timeout", modern.DefaultTimeout, "The timeout to use.")
	f.StringVar(&o.returnRate, "return-rate", "", fmt.Sprintf("Set Return Rate in Hz [%s]", strings.Join(serialpkg.ReturnRateChoices, "|")))
	f.StringVar(&o.mode, "mode", "", fmt.Sprintf("Comm mode (modbus stops serial spew) [%s]", strings.Join(serialpkg.ModeChoices, "|")))
	f.StringVar(&o.op, "op", "", fmt.Sprintf("The operation to perform. [%s]", strings.Join(modern.OperationChoices, "|")))
	f.Bool("debug", false, "Enable debug logging.")
	f.String("log-file", "", "Also write logs to this file (rotated).")
	return cmd
}

func run(cmd *cobra.Command, out io.Writer, o *options) error {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	settings, err := modern.LoadConfig(v, o.configPath)
	if err != nil {
		return err
	}

	log, err := logging.New(logging.Options{Debug: settings.Debug, File: settings.LogFile, Console: true})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Debug("cli",
		zap.String("serial_port", settings.SerialPort),
		zap.Int("baud_rate", settings.BaudRate),
		zap.Int("timeout", settings.Timeout),
		zap.String("return_rate", o.returnRate),
		zap.String("mode", o.mode),
		zap.String("op", o.op),
		zap.Bool("debug", settings.Debug),
	)

	exitWithMsg := func(msg string) error {
		log.Error(msg)
		return loggedError{errors.New(msg)}
	}

	req, err := modern.ResolveOperation(o.op, o.returnRate, o.mode)
	if errors.Is(err, modern.ErrNoOperation) {
		return exitWithMsg("No operation specified. Exiting.")
	}
	if err != nil {
		return exitWithMsg(err.Error())
	}

	sess, err := modern.Connect(serialpkg.Config{
		Port:       settings.SerialPort,
		Baud:       settings.BaudRate,
		Timeout:    settings.Timeout,
		ReturnRate: req.ReturnRate,
		Debug:      settings.Debug,
		Logger:     log,
	})
	if err != nil {
		return exitWithMsg(fmt.Sprintf("Error initializing RangeFinder: %v", err))
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := newPrinter(out)
	if req.Op == modern.OpStream || req.Op == modern.OpLStream {
		ui.DrainKeys()
		ui.CancelOnStopKey(ctx, stop)
		defer ui.StopKeyEvents()
		p.lineEnd = "\r\n"
	}

	res, err := modern.Dispatch(ctx, sess.Finder, req, func(r serialpkg.Reading) {
		p.greenPrintln("%s", r)
	})
	if ctx.Err() != nil {
		log.Warn("Closing the serial port.")
	}
	if cerr := sess.Close(); cerr != nil {
		log.Debug("close", zap.Error(cerr))
	}
	if err != nil {
		return exitWithMsg(err.Error())
	}

	p.lineEnd = "\n"
	switch res.Op {
	case modern.OpGetReturnRate:
		p.greenPrintln("Return rate: %s Hz", res.ReturnRate)
	case modern.OpSetReturnRate:
		p.greenPrintln("Return rate set to %s Hz", res.ReturnRate)
	case modern.OpMode:
		p.greenPrintln("Sensor mode set to %s", req.Mode)
	case modern.OpReset:
		p.warningPrintln("Sensor reset")
	}
	return nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		var le loggedError
		if !errors.As(err, &le) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
