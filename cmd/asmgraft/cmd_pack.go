package main

import (
	"fmt"

	"github.com/odvcencio/asmgraft/pkg/fixture"
	"github.com/spf13/cobra"
)

func newPackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pack IN OUT",
		Short: "Validate a fixture and write it zstd-compressed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !fixture.IsCompressed(args[1]) {
				printWarning(cmd.ErrOrStderr(), fmt.Sprintf("%s does not end in %s; LoadFile will not decompress it", args[1], fixture.CompressedExt))
			}
			fp, err := fixture.Pack(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "packed %s into %s (%s)\n", args[0], args[1], fixture.ShortFingerprint(fp))
			return nil
		},
	}
}
