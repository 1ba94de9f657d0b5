// Command rasterstyle inspects and edits paletted raster layer style
// documents (QML files) exported for the park land-cover maps.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/armkhudinyan/porto-parque/logger"
	"github.com/armkhudinyan/porto-parque/qml"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "rasterstyle",
	Short: "Inspect and edit paletted raster layer styles",
	Long: `rasterstyle works with the QML style documents that map land-cover
class values to colours for single-band classified rasters.

It can validate a document, normalise its formatting, show its palette,
diff two documents, apply a palette from a catalog or text file, and
re-validate a document whenever it changes on disk.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var l *zap.Logger
		var err error
		if verbose {
			l, err = zap.NewDevelopment()
		} else {
			l, err = zap.NewProduction()
		}
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		zap.ReplaceGlobals(l)
		cmd.SetContext(logger.NewContext(cmd.Context(), l))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		zap.L().Sync() //nolint:errcheck
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <style.qml>",
	Short: "Parse a style document and check its invariants",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := qml.DecodeFile(args[0])
		if err != nil {
			return err
		}
		logger.L(cmd.Context()).Info("document valid",
			zap.String("path", args[0]),
			zap.Int("palette", len(rec.Renderer.Palette)),
			zap.Int("band", rec.Renderer.Band))
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d palette entries)\n",
			args[0], len(rec.Renderer.Palette))
		return nil
	},
}

var fmtWrite bool

var fmtCmd = &cobra.Command{
	Use:   "fmt <style.qml>",
	Short: "Normalise a style document (decode and re-encode)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := qml.DecodeFile(args[0])
		if err != nil {
			return err
		}
		if fmtWrite {
			return qml.EncodeFile(args[0], rec)
		}
		return qml.Encode(cmd.OutOrStdout(), rec)
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "rewrite the file in place")
	rootCmd.AddCommand(validateCmd, fmtCmd, showCmd, diffCmd, applyCmd, watchCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.SetFlags(0)
		log.Fatalf("rasterstyle: %v", err)
	}
}
