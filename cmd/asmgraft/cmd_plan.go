package main

import (
	"fmt"

	"github.com/odvcencio/asmgraft/pkg/fixture"
	"github.com/odvcencio/asmgraft/pkg/merge"
	"github.com/spf13/cobra"
)

func newPlanCmd() *cobra.Command {
	var pf profileFlags
	var source, target string

	cmd := &cobra.Command{
		Use:   "plan FIXTURE --source MODULE --target MODULE",
		Short: "Plan importing one module's entities into another",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if source == "" || target == "" {
				return fmt.Errorf("plan: --source and --target are required")
			}
			s, err := openSession(cmd, &pf, args[0], source, target)
			if err != nil {
				return err
			}
			src, _ := s.fixture.Module(source)
			dst, _ := s.fixture.Module(target)

			p := merge.Plan(s.cmp, src, dst)
			p.Fingerprint = s.fixture.Fingerprint

			out := cmd.OutOrStdout()
			for _, e := range p.Entities {
				fmt.Fprintf(out, "%-9s %-12s %s -> %s\n", e.Disposition, e.Table, s.label(e.Source), s.label(e.Target))
			}
			fmt.Fprintf(out, "plan %s: %s\n", fixture.ShortFingerprint(p.Fingerprint), p.Summary())
			if n := p.Summary().Ambiguous; n > 0 {
				printWarning(cmd.ErrOrStderr(), fmt.Sprintf("%d entities have more than one equal target; the first was chosen", n))
			}
			return nil
		},
	}

	addProfileFlags(cmd, &pf)
	cmd.Flags().StringVar(&source, "source", "", "module whose entities are imported")
	cmd.Flags().StringVar(&target, "target", "", "module receiving the entities")
	return cmd
}
