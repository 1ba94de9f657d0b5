package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/armkhudinyan/porto-parque/internal/watch"
	"github.com/armkhudinyan/porto-parque/logger"
	"github.com/armkhudinyan/porto-parque/qml"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <style.qml>",
	Short: "Re-validate a style document whenever it changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		l := logger.L(ctx)

		w, err := watch.New(args[0], watchDebounce, func(path string) {
			rec, err := qml.DecodeFile(path)
			if err != nil {
				l.Warn("document invalid", zap.String("path", path), zap.Error(err))
				return
			}
			l.Info("document valid",
				zap.String("path", path),
				zap.Int("palette", len(rec.Renderer.Palette)))
		})
		if err != nil {
			return err
		}
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce,
		"quiet period before re-validating")
}
