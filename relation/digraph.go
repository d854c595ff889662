package relation

import "github.com/dekarrin/lrgen/symbol"

const infiniteDepth = int(^uint(0) >> 1)

// digraph computes, for every node in nodes, the transitive union of base[x]
// across the relation rel, using the linear-time Digraph/SCC traversal
// described in §4.5: nodes are pushed on a stack as they're first visited,
// given a depth equal to their stack position; a node's running F-value
// starts at base[x] and absorbs F(y) for every related y; when a node's
// depth still equals the depth it was pushed at (it is the root of its
// strongly-connected component), every node back to it on the stack is
// popped, given depth=infinity, and assigned the root's final F-value.
//
// This is exactly how Follow (§4.5, over Includes with base=Read) and, if
// ever needed elsewhere, any other relation-closure-over-a-base-function is
// computed in this package — there is only one implementation of the
// traversal.
func digraph[K comparable](nodes []K, rel map[K][]K, base map[K]*symbol.Set) map[K]*symbol.Set {
	f := make(map[K]*symbol.Set, len(nodes))
	depths := make(map[K]int, len(nodes))
	var stack []K

	var traverse func(x K)
	traverse = func(x K) {
		stack = append(stack, x)
		d := len(stack)
		depths[x] = d

		fx := symbol.NewSet()
		if b, ok := base[x]; ok {
			fx.AddAll(b)
		}
		f[x] = fx

		for _, y := range rel[x] {
			if _, ok := depths[y]; !ok {
				traverse(y)
			}
			if depths[y] < depths[x] {
				depths[x] = depths[y]
			}
			fx.AddAll(f[y])
		}

		if depths[x] == d {
			for {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				depths[top] = infiniteDepth
				f[top] = fx
				if top == x {
					break
				}
			}
		}
	}

	for _, x := range nodes {
		if _, ok := depths[x]; !ok {
			traverse(x)
		}
	}

	return f
}
