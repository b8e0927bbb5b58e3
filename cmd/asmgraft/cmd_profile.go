package main

import (
	"fmt"
	"strings"

	"github.com/odvcencio/asmgraft/pkg/identity"
	"github.com/spf13/cobra"
)

func newProfileCmd() *cobra.Command {
	var pf profileFlags
	var write string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the resolved comparison profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pf.profile()
			if err != nil {
				return err
			}
			flags, err := p.Flags()
			if err != nil {
				return err
			}
			depth := p.MaxDepth
			if depth == 0 {
				depth = identity.DefaultMaxDepth
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "profile:   %s\n", p.Preset)
			fmt.Fprintf(out, "max depth: %d\n", depth)
			fmt.Fprintf(out, "flags:     %s\n", flags)
			fmt.Fprintf(out, "presets:   %s\n", strings.Join(identity.PresetNames(), ", "))

			if write != "" {
				if err := p.Write(write); err != nil {
					return err
				}
				printInfo(cmd.ErrOrStderr(), "wrote", write)
			}
			return nil
		},
	}

	addProfileFlags(cmd, &pf)
	cmd.Flags().StringVar(&write, "write", "", "write the resolved profile to this file")
	return cmd
}
