// Package identity decides whether metadata entities drawn from different
// modules denote the same declaration, and hashes them consistently with
// that decision.
package identity

import "github.com/odvcencio/asmgraft/pkg/metadata"

// Comparer compares and hashes types, members and signatures under a fixed
// set of options. A Comparer carries recursion state and must not be used
// from more than one goroutine at a time; create one per import operation.
type Comparer struct {
	flags    Flags
	source   *metadata.Module
	target   *metadata.Module
	resolver metadata.Resolver
	guard    guard
}

// New returns a Comparer for opts. resolver is consulted when a reference
// can only be matched by following exported-type forwarders; it may be nil.
func New(opts Options, resolver metadata.Resolver) *Comparer {
	depth := opts.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	return &Comparer{
		flags:    opts.Flags,
		source:   opts.Source,
		target:   opts.Target,
		resolver: resolver,
		guard:    guard{max: depth},
	}
}

// Flags returns the comparison flags.
func (c *Comparer) Flags() Flags { return c.flags }

// MaxDepth returns the recursion limit.
func (c *Comparer) MaxDepth() int { return c.guard.max }

func (c *Comparer) has(f Flags) bool { return c.flags&f != 0 }

// Exceeded reports whether the last top-level call hit the recursion limit.
func (c *Comparer) Exceeded() bool { return c.guard.exceeded }

func (c *Comparer) equalTop(eq func() bool) bool {
	c.guard.reset()
	ok := eq()
	return ok && !c.guard.exceeded
}

func (c *Comparer) hashTop(h func() uint32) uint32 {
	c.guard.reset()
	v := h()
	if c.guard.exceeded {
		return 0
	}
	return v
}

// EqualType reports whether two type-system entities denote the same type.
func (c *Comparer) EqualType(a, b metadata.Type) bool {
	return c.equalTop(func() bool { return c.equalType(a, b) })
}

// HashType hashes a type-system entity consistently with EqualType.
func (c *Comparer) HashType(t metadata.Type) uint32 {
	return c.hashTop(func() uint32 { return c.hashType(t) })
}

// EqualSig compares two type signatures structurally.
func (c *Comparer) EqualSig(a, b metadata.TypeSig) bool {
	return c.equalTop(func() bool { return c.equalSig(a, b) })
}

// HashSig hashes a type signature consistently with EqualSig.
func (c *Comparer) HashSig(s metadata.TypeSig) uint32 {
	return c.hashTop(func() uint32 { return c.hashSig(s) })
}

// EqualCallSig compares two calling-convention signatures.
func (c *Comparer) EqualCallSig(a, b metadata.CallingConventionSig) bool {
	return c.equalTop(func() bool { return c.equalCallSig(a, b) })
}

// HashCallSig hashes a calling-convention signature consistently with
// EqualCallSig.
func (c *Comparer) HashCallSig(s metadata.CallingConventionSig) uint32 {
	return c.hashTop(func() uint32 { return c.hashCallSig(s) })
}

// EqualMember reports whether two member-system entities denote the same
// member.
func (c *Comparer) EqualMember(a, b metadata.Member) bool {
	return c.equalTop(func() bool { return c.equalMember(a, b) })
}

// HashMember hashes a member consistently with EqualMember.
func (c *Comparer) HashMember(m metadata.Member) uint32 {
	return c.hashTop(func() uint32 { return c.hashMember(m) })
}

// EqualModules reports whether two module identities name the same module.
func (c *Comparer) EqualModules(a, b metadata.ModuleScope) bool {
	return c.equalTop(func() bool { return c.equalModuleScopes(a, b) })
}

// EqualAssemblies reports whether two assembly identities name the same
// assembly.
func (c *Comparer) EqualAssemblies(a, b metadata.AssemblyScope) bool {
	return c.equalTop(func() bool { return c.equalAssemblies(a, b) })
}

// EqualTypeLists compares two type lists pairwise, in order.
func (c *Comparer) EqualTypeLists(a, b []metadata.Type) bool {
	return c.equalTop(func() bool { return equalLists(a, b, c.equalType) })
}

// HashTypeList hashes a type list consistently with EqualTypeLists.
func (c *Comparer) HashTypeList(list []metadata.Type) uint32 {
	return c.hashTop(func() uint32 { return hashListOf(list, c.hashType) })
}

// EqualSigLists compares two signature lists pairwise, in order.
func (c *Comparer) EqualSigLists(a, b []metadata.TypeSig) bool {
	return c.equalTop(func() bool { return equalLists(a, b, c.equalSig) })
}

// HashSigList hashes a signature list consistently with EqualSigLists.
func (c *Comparer) HashSigList(list []metadata.TypeSig) uint32 {
	return c.hashTop(func() uint32 { return hashListOf(list, c.hashSig) })
}

// EqualMemberLists compares two member lists pairwise, in order.
func (c *Comparer) EqualMemberLists(a, b []metadata.Member) bool {
	return c.equalTop(func() bool { return equalLists(a, b, c.equalMember) })
}

// HashMemberList hashes a member list consistently with EqualMemberLists.
func (c *Comparer) HashMemberList(list []metadata.Member) uint32 {
	return c.hashTop(func() uint32 { return hashListOf(list, c.hashMember) })
}

// EqualCallSigLists compares two calling-convention signature lists pairwise, in order.
func (c *Comparer) EqualCallSigLists(a, b []metadata.CallingConventionSig) bool {
	return c.equalTop(func() bool { return equalLists(a, b, c.equalCallSig) })
}

// HashCallSigList hashes a calling-convention signature list consistently with EqualCallSigLists.
func (c *Comparer) HashCallSigList(list []metadata.CallingConventionSig) uint32 {
	return c.hashTop(func() uint32 { return hashListOf(list, c.hashCallSig) })
}

// equalLists requires equal length and pairwise equality in order.
func equalLists[T any](a, b []T, eq func(T, T) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !eq(a[i], b[i]) {
			return false
		}
	}
	return true
}

func hashListOf[T any](list []T, h func(T) uint32) uint32 {
	v := mix(hashList, uint32(len(list)))
	for _, e := range list {
		v = mix(v, h(e))
	}
	return v
}
