// SPDX-License-Identifier: MIT
//
// container.go -- an unordered union-of-zones container with subsumption
// compression, grounded on the teacher's dedup-by-signature idiom in
// dfs/cycle.go (a `seen` set keyed by canonical content, pruning anything
// already subsumed) generalized from cycle signatures to zone subset
// tests.
package zone

// Option configures optional behavior for Container construction.
// Grounded on matrix/options.go and bfs/types.go's functional-options
// idiom: public constructors accept ...Option, internal state stays
// unexported.
type Option func(*containerOptions)

// containerOptions holds tunables applied by NewContainer.
type containerOptions struct {
	capacityHint int  // preallocation hint for the member slice
	singlePass   bool // Combine runs one Compress pass instead of a fixed point
}

// WithCapacityHint preallocates the member slice for n zones -- the
// "--block-size" CLI allocator hint spec.md §6 names, threaded through by
// the bisimulation core's own container construction. n <= 0 is ignored.
func WithCapacityHint(n int) Option {
	return func(o *containerOptions) {
		if n > 0 {
			o.capacityHint = n
		}
	}
}

// WithSinglePassCombine trades Combine's fixed-point iteration (the
// default; see Combine's own doc comment) for a single Compress pass.
// One Compress pass already drops every member subsumed by another, so
// both modes yield the same members; this option only skips the
// fixed-point re-check.
func WithSinglePassCombine() Option {
	return func(o *containerOptions) { o.singlePass = true }
}

// Container is an unordered set of zones interpreted as their union.
type Container struct {
	dim        int
	members    []*Zone
	singlePass bool
}

// NewContainer returns an empty container for zones of the given
// dimension, with the given options applied.
func NewContainer(dim int, opts ...Option) *Container {
	var o containerOptions
	for _, opt := range opts {
		opt(&o)
	}
	var members []*Zone
	if o.capacityHint > 0 {
		members = make([]*Zone, 0, o.capacityHint)
	}
	return &Container{dim: dim, members: members, singlePass: o.singlePass}
}

// Dim returns the dimension every member must share.
func (c *Container) Dim() int { return c.dim }

// Len returns the number of members currently stored (pre- or
// post-compression, whichever was last performed).
func (c *Container) Len() int { return len(c.members) }

// Members returns the stored zones. Callers must not mutate the result.
func (c *Container) Members() []*Zone { return c.members }

// IsEmpty reports whether the container has no members (the empty
// union, i.e. the empty set of valuations).
func (c *Container) IsEmpty() bool { return len(c.members) == 0 }

// AppendZone pushes z onto the container without compressing.
func (c *Container) AppendZone(z *Zone) {
	if z.IsEmpty() {
		return
	}
	c.members = append(c.members, z)
}

// Clone returns an independent deep copy.
func (c *Container) Clone() *Container {
	out := &Container{dim: c.dim, members: make([]*Zone, len(c.members)), singlePass: c.singlePass}
	for i, z := range c.members {
		out.members[i] = z.Clone()
	}
	return out
}

// Compress removes any member subsumed by another (a member a such that
// a <= b for some distinct member b is dropped).
func (c *Container) Compress() {
	keep := make([]*Zone, 0, len(c.members))
	for i, a := range c.members {
		subsumed := false
		for j, b := range c.members {
			if i == j {
				continue
			}
			if a.Le(b) && (!b.Le(a) || j < i) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			keep = append(keep, a)
		}
	}
	c.members = keep
}

// Combine returns a semantically equivalent, maximally compressed
// container: it repeatedly drops any member subsumed by another (a <= b)
// until a fixed point is reached, then compresses once more. k is the
// dimension all members must share. This is subset-absorption to a fixed
// point, not a convex-hull merge -- it never introduces a new zone that
// covers two previously-distinct members without one already containing
// the other.
//
// Grounded on original_source/zone_container.cc's combine loop (see
// DESIGN.md): Combine iterates to a fixed point rather than running one
// pass, unless the container was built with WithSinglePassCombine. Since
// subset absorption never creates a new member, the first Compress pass
// already reaches that fixed point and both modes give the same result.
func (c *Container) Combine(k int) *Container {
	out := c.Clone()
	if out.dim != k {
		return out
	}
	if out.singlePass {
		out.Compress()
		return out
	}
	for {
		merged := false
		out.Compress()
		for i := 0; i < len(out.members); i++ {
			for j := i + 1; j < len(out.members); j++ {
				a, b := out.members[i], out.members[j]
				if a.Le(b) {
					out.members = removeAt(out.members, i)
					merged = true
					break
				}
				if b.Le(a) {
					out.members = removeAt(out.members, j)
					merged = true
					break
				}
			}
			if merged {
				break
			}
		}
		if !merged {
			break
		}
	}
	out.Compress()
	return out
}

func removeAt(s []*Zone, i int) []*Zone {
	out := make([]*Zone, 0, len(s)-1)
	out = append(out, s[:i]...)
	out = append(out, s[i+1:]...)
	return out
}

// IntersectContainer returns the union, over this container's members,
// of each intersected with z -- i.e. (this union) ∩ z expressed again as
// a union-container. Empty intersections are dropped.
func (c *Container) IntersectContainer(z *Zone) *Container {
	out := NewContainer(c.dim)
	for _, m := range c.members {
		if inter, err := m.Intersect(z); err == nil {
			out.AppendZone(inter)
		}
	}
	return out
}

// Hash returns an order-independent content hash: the XOR of each
// member's Hash, so permuting members never changes the result.
func (c *Container) Hash() uint64 {
	var h uint64
	for _, m := range c.members {
		h ^= m.Hash()
	}
	return h
}

// Equal reports whether c and other are semantically equal up to
// compression (both Combine to containers with pairwise-Equal members,
// compared as a multiset via sorted hashes -- sufficient here because
// Combine+Compress leaves no two equal members in either container).
func (c *Container) Equal(other *Container) bool {
	a := c.Combine(c.dim)
	b := other.Combine(other.dim)
	if len(a.members) != len(b.members) {
		return false
	}
	used := make([]bool, len(b.members))
	for _, ma := range a.members {
		found := false
		for j, mb := range b.members {
			if used[j] {
				continue
			}
			if ma.Equal(mb) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
