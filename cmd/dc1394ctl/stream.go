package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rlhal/firewire/pkg/dc1394"
)

func newStreamCmd(a *app) *cobra.Command {
	var (
		duration    time.Duration
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Capture continuously at the configured framerate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			if duration > 0 {
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}
			return a.stream(ctx, metricsAddr)
		},
	}
	cmd.Flags().DurationVar(&duration, "duration", 0, "stop after this long, 0 runs until interrupted")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9394")
	return cmd
}

func (a *app) stream(ctx context.Context, metricsAddr string) (err error) {
	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: a.metricsMux(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("metrics server: %v", err)
			}
		}()
		defer srv.Close()
		logger.Infof("serving metrics on %s/metrics", metricsAddr)
	}

	cam, err := a.openCamera()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := cam.Close(); err == nil {
			err = closeErr
		}
	}()

	if err := cam.Start(); err != nil {
		return err
	}

	ticker := time.NewTicker(cam.UpdateRate())
	defer ticker.Stop()

	frames, timeouts := 0, 0
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintf(a.out, "captured %d frames, %d timeouts\n", frames, timeouts)
			return cam.Stop()
		case <-ticker.C:
		}

		switch err := cam.Step(); {
		case errors.Is(err, dc1394.ErrTimeout):
			timeouts++
			logger.Warnf("%v", err)
		case err != nil:
			return err
		default:
			frames++
		}
	}
}

func (a *app) metricsMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	return mux
}
