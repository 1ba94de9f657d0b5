package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/armkhudinyan/porto-parque/catalog"
	"github.com/armkhudinyan/porto-parque/logger"
	"github.com/armkhudinyan/porto-parque/qml"
	"github.com/armkhudinyan/porto-parque/style"
)

var (
	applyName    string
	applyText    string
	applyCatalog string
	applyReplace bool
	applyOut     string
)

var applyCmd = &cobra.Command{
	Use:   "apply <style.qml>",
	Short: "Rewrite a document's palette from a catalog or text file",
	Long: `apply loads a palette and writes it into the style document.

The palette comes from --text (plain "value colour [alpha] [label]"
lines) or from --name, looked up in the built-in catalog plus any YAML
catalog given with --catalog.  By default the loaded entries are merged
over the document's palette by class value; --replace discards the
existing palette instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if (applyName == "") == (applyText == "") {
			return fmt.Errorf("exactly one of --name or --text is required")
		}

		palette, err := loadPalette()
		if err != nil {
			return err
		}

		rec, err := qml.DecodeFile(args[0])
		if err != nil {
			return err
		}
		if applyReplace {
			rec.Renderer.Palette = palette
		} else {
			rec.Renderer.Palette = style.MergePalette(rec.Renderer.Palette, palette)
		}

		out := applyOut
		if out == "" {
			out = args[0]
		}
		if err := qml.EncodeFile(out, rec); err != nil {
			return err
		}
		logger.L(cmd.Context()).Info("palette applied",
			zap.String("path", out),
			zap.Int("entries", len(rec.Renderer.Palette)))
		return nil
	},
}

func loadPalette() ([]style.PaletteEntry, error) {
	if applyText != "" {
		data, err := os.ReadFile(applyText)
		if err != nil {
			return nil, err
		}
		palette, err := catalog.ParsePaletteText(string(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", applyText, err)
		}
		return palette, nil
	}

	cat := catalog.Builtin()
	if applyCatalog != "" {
		if err := cat.Load(applyCatalog); err != nil {
			return nil, err
		}
	}
	return cat.Get(applyName)
}

func init() {
	applyCmd.Flags().StringVar(&applyName, "name", "", "palette name in the catalog")
	applyCmd.Flags().StringVar(&applyText, "text", "", "plain-text palette file")
	applyCmd.Flags().StringVar(&applyCatalog, "catalog", "", "extra YAML catalog file")
	applyCmd.Flags().BoolVar(&applyReplace, "replace", false, "replace the palette instead of merging")
	applyCmd.Flags().StringVarP(&applyOut, "out", "o", "", "output path (default: in place)")
}
