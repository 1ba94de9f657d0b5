package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/armkhudinyan/porto-parque/qml"
)

var showCmd = &cobra.Command{
	Use:   "show <style.qml>",
	Short: "Print a summary of a style document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := qml.DecodeFile(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "renderer:   %s (band %d, opacity %.2f)\n",
			rec.Renderer.Type, rec.Renderer.Band, rec.Renderer.Opacity)
		fmt.Fprintf(out, "scale:      min %g, max %g\n", rec.MinScale, rec.MaxScale)
		fmt.Fprintf(out, "flags:      identifiable=%v removable=%v searchable=%v\n",
			rec.Flags.Identifiable, rec.Flags.Removable, rec.Flags.Searchable)
		fmt.Fprintf(out, "adjust:     brightness %d, contrast %d, gamma %g\n",
			rec.BrightnessContrast.Brightness, rec.BrightnessContrast.Contrast,
			rec.BrightnessContrast.Gamma)
		fmt.Fprintf(out, "resampler:  max oversampling %g\n", rec.Resampler.MaxOversampling)
		fmt.Fprintf(out, "blend mode: %s\n", rec.BlendMode)
		if len(rec.CustomProperties) > 0 {
			fmt.Fprintf(out, "properties: %d\n", len(rec.CustomProperties))
		}

		fmt.Fprintln(out)
		tw := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "VALUE\tCOLOR\tALPHA\tTONE\tLABEL")
		for _, e := range rec.Renderer.Palette {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n",
				e.Value, e.Color, e.Alpha, tone(e.Luminance()), e.Label)
		}
		return tw.Flush()
	},
}

// tone buckets perceived lightness so a palette can be eyeballed in a
// terminal without colour output.
func tone(luminance float64) string {
	switch {
	case luminance < 0.25:
		return "dark"
	case luminance < 0.6:
		return "mid"
	default:
		return "light"
	}
}
