package main

import (
	"fmt"

	"github.com/odvcencio/asmgraft/pkg/config"
	"github.com/odvcencio/asmgraft/pkg/fixture"
	"github.com/odvcencio/asmgraft/pkg/identity"
	"github.com/odvcencio/asmgraft/pkg/metadata"
	"github.com/spf13/cobra"
)

// profileFlags are the comparer settings shared by compare, hash and plan.
type profileFlags struct {
	configPath string
	preset     string
	maxDepth   int
	verbose    bool
}

func addProfileFlags(cmd *cobra.Command, pf *profileFlags) {
	cmd.Flags().StringVar(&pf.configPath, "config", "", "profile file (TOML)")
	cmd.Flags().StringVar(&pf.preset, "profile", "", "comparison preset, overrides the profile file")
	cmd.Flags().IntVar(&pf.maxDepth, "max-depth", 0, "recursion limit, overrides the profile file")
	cmd.Flags().BoolVarP(&pf.verbose, "verbose", "v", false, "print profile and fixture details to stderr")
}

func (pf *profileFlags) profile() (*config.Profile, error) {
	p := config.Default()
	if pf.configPath != "" {
		var err error
		if p, err = config.Read(pf.configPath); err != nil {
			return nil, err
		}
	}
	if pf.preset != "" {
		p.Preset = pf.preset
	}
	if pf.maxDepth < 0 {
		return nil, fmt.Errorf("--max-depth must not be negative")
	}
	if pf.maxDepth > 0 {
		p.MaxDepth = pf.maxDepth
	}
	return p, nil
}

// session is a loaded fixture with a comparer configured for it.
type session struct {
	fixture *fixture.Fixture
	cmp     *identity.Comparer
}

// openSession loads the fixture and builds a comparer. source and target
// name the modules of an import; either may be empty.
func openSession(cmd *cobra.Command, pf *profileFlags, path, source, target string) (*session, error) {
	p, err := pf.profile()
	if err != nil {
		return nil, err
	}
	f, err := fixture.LoadFile(path)
	if err != nil {
		return nil, err
	}
	src, err := optionalModule(f, source)
	if err != nil {
		return nil, fmt.Errorf("--source: %w", err)
	}
	dst, err := optionalModule(f, target)
	if err != nil {
		return nil, fmt.Errorf("--target: %w", err)
	}
	opts, err := p.Options(src, dst)
	if err != nil {
		return nil, err
	}
	cmp := identity.New(opts, f.Universe)

	if pf.verbose {
		w := cmd.ErrOrStderr()
		preset := p.Preset
		if preset == "" {
			preset = identity.DefaultPreset
		}
		printInfo(w, "profile", preset)
		printInfo(w, "flags", cmp.Flags().String())
		printInfo(w, "depth", fmt.Sprintf("%d", cmp.MaxDepth()))
		printInfo(w, "fixture", fmt.Sprintf("%s (%s)", path, fixture.ShortFingerprint(f.Fingerprint)))
	}
	return &session{fixture: f, cmp: cmp}, nil
}

func optionalModule(f *fixture.Fixture, name string) (*metadata.Module, error) {
	if name == "" {
		return nil, nil
	}
	return f.Module(name)
}

// label renders n for output: its selector when labeled, otherwise its
// metadata string form.
func (s *session) label(n metadata.Node) string {
	if metadata.IsNil(n) {
		return "-"
	}
	if l := s.fixture.Label(n); l != "" {
		return l
	}
	if st, ok := n.(fmt.Stringer); ok {
		return st.String()
	}
	return fmt.Sprintf("%T", n)
}

// warnIfExceeded reports a tripped recursion guard. Its results are the
// conservative "not equal" and hash 0.
func (s *session) warnIfExceeded(cmd *cobra.Command) {
	if s.cmp.Exceeded() {
		printWarning(cmd.ErrOrStderr(), fmt.Sprintf("recursion limit %d reached; result is conservative", s.cmp.MaxDepth()))
	}
}
