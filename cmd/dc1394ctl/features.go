package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rlhal/firewire/pkg/dc1394"
)

func newFeaturesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "Show the features of the configured camera",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.features()
		},
	}
}

func (a *app) features() error {
	cam, err := a.openCamera()
	if err != nil {
		return err
	}
	defer cam.Close()

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FEATURE\tMODES\tMODE\tON\tVALUE\tRANGE\tABSOLUTE")
	for _, f := range dc1394.Features() {
		present, err := cam.IsFeaturePresent(f)
		if err != nil {
			return err
		}
		if !present {
			continue
		}
		row, err := featureRow(cam, f)
		if err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func featureRow(cam *dc1394.Camera, f dc1394.Feature) ([]string, error) {
	modes, err := cam.FeatureModes(f)
	if err != nil {
		return nil, err
	}
	mode, err := cam.FeatureMode(f)
	if err != nil {
		return nil, err
	}
	on, err := cam.IsFeatureEnabled(f)
	if err != nil {
		return nil, err
	}
	min, max, err := cam.FeatureBoundaries(f)
	if err != nil {
		return nil, err
	}

	value := "-"
	if readable, _ := cam.IsFeatureReadable(f); readable {
		v, err := cam.FeatureValue(f)
		if err != nil {
			return nil, err
		}
		value = fmt.Sprint(v)
	}

	absolute := "-"
	if ok, _ := cam.HasFeatureAbsoluteControl(f); ok {
		absolute = "off"
		if on, _ := cam.FeatureAbsoluteControl(f); on {
			amin, amax, err := cam.FeatureBoundariesAbsolute(f)
			if err != nil {
				return nil, err
			}
			absolute = fmt.Sprintf("[%g, %g]", amin, amax)
		}
	}

	return []string{
		f.String(),
		formatModes(modes),
		mode.String(),
		fmt.Sprint(on),
		value,
		fmt.Sprintf("[%d, %d]", min, max),
		absolute,
	}, nil
}

func formatModes(m dc1394.FeatureModes) string {
	var names []string
	for _, mode := range []dc1394.FeatureMode{dc1394.FeatureModeManual, dc1394.FeatureModeAuto, dc1394.FeatureModeOnePushAuto} {
		if m.Has(mode) {
			names = append(names, mode.String())
		}
	}
	return strings.Join(names, ",")
}
