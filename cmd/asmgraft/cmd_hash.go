package main

import (
	"fmt"

	"github.com/odvcencio/asmgraft/pkg/metadata"
	"github.com/spf13/cobra"
)

func newHashCmd() *cobra.Command {
	var pf profileFlags

	cmd := &cobra.Command{
		Use:   "hash FIXTURE ENTITY...",
		Short: "Print identity hashes of fixture entities",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, &pf, args[0], "", "")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, sel := range args[1:] {
				n, err := s.fixture.Select(sel)
				if err != nil {
					return err
				}
				var h uint32
				switch n := n.(type) {
				case metadata.Type:
					h = s.cmp.HashType(n)
				case metadata.Member:
					h = s.cmp.HashMember(n)
				default:
					return fmt.Errorf("%s is neither a type nor a member", sel)
				}
				s.warnIfExceeded(cmd)
				fmt.Fprintf(out, "%08x %s\n", h, sel)
			}
			return nil
		},
	}

	addProfileFlags(cmd, &pf)
	return cmd
}
