package main

import (
	"fmt"

	"github.com/odvcencio/asmgraft/pkg/metadata"
	"github.com/spf13/cobra"
)

func newCompareCmd() *cobra.Command {
	var pf profileFlags
	var source, target string

	cmd := &cobra.Command{
		Use:   "compare FIXTURE A B",
		Short: "Compare two entities of a fixture for identity",
		Long: "Compare two entities selected as module!label. Both must be types\n" +
			"(definitions, references, specifications, exported types) or both members.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, &pf, args[0], source, target)
			if err != nil {
				return err
			}
			a, err := s.fixture.Select(args[1])
			if err != nil {
				return err
			}
			b, err := s.fixture.Select(args[2])
			if err != nil {
				return err
			}

			res, err := s.compare(cmd, a, b)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "equal: %t\n", res.equal)
			fmt.Fprintf(out, "%08x %s\n", res.hashA, args[1])
			fmt.Fprintf(out, "%08x %s\n", res.hashB, args[2])
			return nil
		},
	}

	addProfileFlags(cmd, &pf)
	cmd.Flags().StringVar(&source, "source", "", "source module of the import")
	cmd.Flags().StringVar(&target, "target", "", "target module of the import")
	return cmd
}

type comparison struct {
	equal        bool
	hashA, hashB uint32
}

func (s *session) compare(cmd *cobra.Command, a, b metadata.Node) (comparison, error) {
	var res comparison
	exceeded := false
	step := func() {
		exceeded = exceeded || s.cmp.Exceeded()
	}

	switch a := a.(type) {
	case metadata.Type:
		bt, ok := b.(metadata.Type)
		if !ok {
			return res, fmt.Errorf("cannot compare type %s with %s", s.label(a), s.label(b))
		}
		res.equal = s.cmp.EqualType(a, bt)
		step()
		res.hashA = s.cmp.HashType(a)
		step()
		res.hashB = s.cmp.HashType(bt)
		step()
	case metadata.Member:
		bm, ok := b.(metadata.Member)
		if !ok {
			return res, fmt.Errorf("cannot compare member %s with %s", s.label(a), s.label(b))
		}
		res.equal = s.cmp.EqualMember(a, bm)
		step()
		res.hashA = s.cmp.HashMember(a)
		step()
		res.hashB = s.cmp.HashMember(bm)
		step()
	default:
		return res, fmt.Errorf("%s is neither a type nor a member", s.label(a))
	}

	if exceeded {
		printWarning(cmd.ErrOrStderr(), fmt.Sprintf("recursion limit %d reached; result is conservative", s.cmp.MaxDepth()))
	}
	return res, nil
}
