// Package serve implements the realtime service command: event store, HTTP
// API, MQTT publisher and the detection listener run until interrupted.
package serve

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/dovewatch/dovewatch-go/internal/api"
	"github.com/dovewatch/dovewatch-go/internal/conf"
	"github.com/dovewatch/dovewatch-go/internal/datastore"
	"github.com/dovewatch/dovewatch-go/internal/errors"
	"github.com/dovewatch/dovewatch-go/internal/logging"
	"github.com/dovewatch/dovewatch-go/internal/mqtt"
	"github.com/dovewatch/dovewatch-go/internal/observability"
)

// Command creates the serve command.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the detection service",
		Long:  "Start the event store, HTTP API, MQTT publisher and detection listener, running until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(settings)
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVar(&settings.WebServer.Port, "port", viper.GetString("webserver.port"), "Port for the HTTP API")
	cmd.Flags().BoolVar(&settings.MQTT.Enabled, "mqtt", viper.GetBool("mqtt.enabled"), "Publish detections to MQTT")
	cmd.Flags().StringVar(&settings.MQTT.Broker, "broker", viper.GetString("mqtt.broker"), "MQTT broker URL")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}

func runServe(settings *conf.Settings) error {
	log := logging.ForService("serve")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ds, err := datastore.New(settings)
	if err != nil {
		return err
	}
	if err := ds.Open(); err != nil {
		return err
	}
	defer func() {
		if err := ds.Close(); err != nil {
			log.Error("failed to close datastore", "error", err)
		}
	}()

	metrics, err := observability.NewMetrics()
	if err != nil {
		return errors.New(err).
			Component("serve").
			Category(errors.CategoryConfiguration).
			Build()
	}

	var publisher mqtt.Client
	if settings.MQTT.Enabled {
		publisher = mqtt.NewClient(settings)
		if err := publisher.Connect(ctx); err != nil {
			// the client retries in the background; the service stays up
			log.Warn("initial MQTT connection failed", "error", err)
		}
		defer publisher.Disconnect()
	}

	if settings.Listener.Enabled {
		// Audio capture and classification are external integrations; the
		// listener loop is wired up by the build that provides them.
		log.Warn("listener.enabled is set but no audio source is configured in this build, realtime capture skipped")
	}

	controller, err := api.New(settings, ds, metrics)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP API listening", "port", settings.WebServer.Port)
		if err := controller.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		return controller.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
