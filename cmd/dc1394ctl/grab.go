package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newGrabCmd(a *app) *cobra.Command {
	var (
		frames int
		out    string
	)
	cmd := &cobra.Command{
		Use:   "grab",
		Short: "Capture frames and write the raw image data to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.grab(frames, out)
		},
	}
	cmd.Flags().IntVarP(&frames, "frames", "n", 1, "number of frames to capture")
	cmd.Flags().StringVarP(&out, "out", "o", "", "file receiving the frames, back to back")
	return cmd
}

func (a *app) grab(frames int, out string) (err error) {
	if frames <= 0 {
		return fmt.Errorf("--frames must be positive, got %d", frames)
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

	if _, ok := cam.VideoMode(); !ok {
		return errors.New("no video mode configured, use --video-mode or [video] in the configuration")
	}

	var f *os.File
	if out != "" {
		f, err = os.Create(out)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
		}()
	}

	if err := cam.Start(); err != nil {
		return err
	}
	buf := make([]byte, cam.Size())
	for i := 0; i < frames; i++ {
		if err := cam.Grab(buf); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if f != nil {
			if _, err := f.Write(buf); err != nil {
				return err
			}
		}
	}
	if err := cam.Stop(); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "captured %d frames of %dx%d %s (%d bytes each)\n",
		frames, cam.Width(), cam.Height(), cam.ColorCoding(), cam.Size())
	return nil
}
