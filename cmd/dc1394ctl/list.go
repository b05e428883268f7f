package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rlhal/firewire/pkg/dc1394"
	"github.com/rlhal/firewire/pkg/driver"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the cameras on the configured port",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.list()
		},
	}
}

func (a *app) list() error {
	m := driver.NewManager()
	if _, err := dc1394.Discover(a.bus, a.cfg.Bus.Port, m); err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LABEL\tID\tVIDEO MODES")
	for _, d := range m.Query(driver.FilterDeviceType(driver.TypeCamera)) {
		modes, err := videoModes(d)
		if err != nil {
			return fmt.Errorf("%s: %w", d.Info().Label, err)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\n", d.Info().Label, d.ID(), len(modes))
	}
	return w.Flush()
}

func videoModes(d driver.Driver) ([]dc1394.VideoMode, error) {
	cam, ok := driver.Unwrap(d).(*dc1394.Camera)
	if !ok {
		return nil, nil
	}

	if err := d.Open(); err != nil {
		return nil, err
	}
	defer d.Close()
	return cam.SupportedVideoModes()
}
