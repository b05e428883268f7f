package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/rlhal/firewire/internal/config"
	"github.com/rlhal/firewire/internal/logging"
	"github.com/rlhal/firewire/internal/metrics"
	"github.com/rlhal/firewire/pkg/dc1394"
	"github.com/rlhal/firewire/pkg/dc1394/dc1394test"
)

var logger = logging.NewLogger("firewire/ctl")

// app is the state shared by all commands. It is filled in by the root
// command before a subcommand runs.
type app struct {
	out io.Writer

	configPath string
	simCameras int

	cfg     config.Config
	bus     dc1394.Bus
	metrics *metrics.Metrics
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:          "dc1394ctl",
		Short:        "Inspect and capture from IIDC cameras on an IEEE-1394 bus",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "TOML configuration file")
	pf.IntVar(&a.simCameras, "sim-cameras", 1, "number of simulated cameras on the bus")
	config.RegisterFlags(pf)

	root.AddCommand(
		newListCmd(a),
		newFeaturesCmd(a),
		newGrabCmd(a),
		newStreamCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Resolve(cmd.Flags(), a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyLogging(); err != nil {
		return err
	}
	a.cfg = cfg

	// No native bus binding is linked in, so the simulated bus is the only
	// one available.
	if a.simCameras <= 0 {
		return errors.New("no IEEE-1394 bus driver available, use --sim-cameras")
	}
	cams := make([]dc1394test.Camera, a.simCameras)
	for i := range cams {
		cams[i] = dc1394test.NewCamera(dc1394.Identity{Port: cfg.Bus.Port, Node: uint(i)})
	}
	a.bus = dc1394test.New(cams...)
	a.metrics = metrics.New()
	logger.Debugf("simulated bus with %d cameras on port %d", a.simCameras, cfg.Bus.Port)
	return nil
}

// openCamera opens the configured camera with a metrics observer.
func (a *app) openCamera() (*dc1394.Camera, error) {
	id := dc1394.Identity{Port: a.cfg.Bus.Port, Node: a.cfg.Bus.Node}
	return a.cfg.OpenCamera(a.bus, dc1394.WithObserver(a.metrics.Camera(id.String())))
}
