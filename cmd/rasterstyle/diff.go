package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/armkhudinyan/porto-parque/qml"
	"github.com/armkhudinyan/porto-parque/style"
)

// errDifferences distinguishes "documents differ" from a real failure so
// the caller gets a non-zero exit without a usage dump.
var errDifferences = errors.New("documents differ")

var diffCmd = &cobra.Command{
	Use:   "diff <old.qml> <new.qml>",
	Short: "Compare two style documents field by field",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		old, err := qml.DecodeFile(args[0])
		if err != nil {
			return err
		}
		new, err := qml.DecodeFile(args[1])
		if err != nil {
			return err
		}
		changes := style.DiffRecords(old, new)
		if len(changes) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no differences")
			return nil
		}
		for _, c := range changes {
			fmt.Fprintln(cmd.OutOrStdout(), c)
		}
		return fmt.Errorf("%w: %d changes", errDifferences, len(changes))
	},
}
