package identity

// guard bounds the recursion depth shared by every comparison and hash call
// of one Comparer. Callers pair a successful enter with a deferred exit:
//
//	if !c.guard.enter() {
//		return false
//	}
//	defer c.guard.exit()
type guard struct {
	depth    int
	max      int
	exceeded bool
}

func (g *guard) enter() bool {
	if g.depth >= g.max {
		g.exceeded = true
		return false
	}
	g.depth++
	return true
}

func (g *guard) exit() {
	g.depth--
}

func (g *guard) reset() {
	g.depth = 0
	g.exceeded = false
}
