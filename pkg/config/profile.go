// Package config loads comparison profiles: a named flag preset adjusted by
// per-flag overrides and a recursion limit.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/odvcencio/asmgraft/pkg/identity"
	"github.com/odvcencio/asmgraft/pkg/metadata"
)

// ErrUnknownProfile is returned for a profile that names no known preset.
var ErrUnknownProfile = errors.New("unknown profile")

// Profile is the on-disk form of a comparer configuration.
type Profile struct {
	Preset   string   `toml:"profile"`
	MaxDepth int      `toml:"max_depth,omitempty"`
	Enable   []string `toml:"enable,omitempty"`
	Disable  []string `toml:"disable,omitempty"`
}

// Default returns the profile used when no file is given.
func Default() *Profile {
	return &Profile{Preset: identity.DefaultPreset, MaxDepth: identity.DefaultMaxDepth}
}

// Read loads a profile file. A missing file yields Default.
func Read(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read profile: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and validates profile text.
func Parse(data []byte) (*Profile, error) {
	p := Default()
	md, err := toml.Decode(string(data), p)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("decode: unknown keys %s", strings.Join(keys, ", "))
	}
	if _, err := p.Flags(); err != nil {
		return nil, err
	}
	return p, nil
}

// Flags resolves the preset and applies Enable, then Disable.
func (p *Profile) Flags() (identity.Flags, error) {
	name := p.Preset
	if name == "" {
		name = identity.DefaultPreset
	}
	flags, ok := identity.Preset(name)
	if !ok {
		return 0, fmt.Errorf("%w %q (want one of %s)", ErrUnknownProfile, name, strings.Join(identity.PresetNames(), ", "))
	}
	for _, n := range p.Enable {
		f, err := identity.ParseFlag(n)
		if err != nil {
			return 0, fmt.Errorf("enable: %w", err)
		}
		flags |= f
	}
	for _, n := range p.Disable {
		f, err := identity.ParseFlag(n)
		if err != nil {
			return 0, fmt.Errorf("disable: %w", err)
		}
		flags &^= f
	}
	if p.MaxDepth < 0 {
		return 0, fmt.Errorf("max_depth must not be negative, got %d", p.MaxDepth)
	}
	return flags, nil
}

// Options builds comparer options for an import from source into target.
// Either module may be nil.
func (p *Profile) Options(source, target *metadata.Module) (identity.Options, error) {
	flags, err := p.Flags()
	if err != nil {
		return identity.Options{}, err
	}
	return identity.Options{
		Flags:    flags,
		Source:   source,
		Target:   target,
		MaxDepth: p.MaxDepth,
	}, nil
}

// Write atomically writes the profile to path.
func (p *Profile) Write(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(p); err != nil {
		return fmt.Errorf("write profile: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".profile-tmp-*")
	if err != nil {
		return fmt.Errorf("write profile: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write profile: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write profile: close: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write profile: rename: %w", err)
	}
	return nil
}
