// Command doughman-server keeps the rangefinder open and serves its readings
// over HTTP, websocket and, optionally, MQTT.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rberger/dough-man/internal/logging"
	"github.com/rberger/dough-man/internal/server"
	"github.com/rberger/dough-man/modern"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:           "doughman-server",
		Short:         "Serve live rangefinder readings",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if err := bindFlags(v, cmd); err != nil {
				return err
			}
			settings, err := modern.LoadConfig(v, configPath)
			if err != nil {
				return err
			}
			log, err := logging.New(logging.Options{Debug: settings.Debug, File: settings.LogFile, Console: true})
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, settings, log)
		},
	}
	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "Config file (default ./doughman.yaml or ~/.config/doughman/doughman.yaml)")
	f.String("serial-port", modern.DefaultSerialPort, "The serial port to connect to.")
	f.Int("baud-rate", modern.DefaultBaudRate, "The baud rate to use.")
	f.Bool("debug", false, "Enable debug logging.")
	f.String("log-file", "", "Also write logs to this file (rotated).")
	f.String("addr", "127.0.0.1:8080", "HTTP listen address.")
	f.Int("history", 256, "Readings kept for /api/readings.")
	f.String("mqtt-broker", "", "Publish readings to this MQTT broker (tcp://host:1883).")
	f.String("mqtt-topic", "doughman/distance", "MQTT topic for readings.")
	return cmd
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	f := cmd.Flags()
	for _, name := range []string{"serial-port", "baud-rate", "debug", "log-file"} {
		if err := v.BindPFlag(name, f.Lookup(name)); err != nil {
			return err
		}
	}
	for _, name := range []string{"addr", "history", "mqtt-broker", "mqtt-topic"} {
		if err := v.BindPFlag("server."+name, f.Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

func serve(ctx context.Context, settings *modern.Settings, log *zap.Logger) error {
	opts := server.Options{
		Addr:    settings.Server.Addr,
		Port:    settings.SerialPort,
		History: settings.Server.History,
		Logger:  log,
	}
	if settings.Server.MQTTBroker != "" {
		pub, err := server.NewPublisher(server.PublisherConfig{
			BrokerAddress: settings.Server.MQTTBroker,
			Topic:         settings.Server.MQTTTopic,
			Logger:        log,
		})
		if err != nil {
			return err
		}
		defer pub.Close()
		opts.Sink = pub
		log.Info("publishing", zap.String("broker", settings.Server.MQTTBroker), zap.String("topic", settings.Server.MQTTTopic))
	}

	s := server.New(opts)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.ListenAndServe(ctx) })
	g.Go(func() error {
		err := s.Watch(ctx, settings.BaudRate)
		if err != nil {
			log.Error("reader stopped", zap.Error(err))
		}
		return err
	})
	err := g.Wait()
	log.Warn("Closing the serial port.")
	return err
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
