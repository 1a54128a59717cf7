// SPDX-License-Identifier: MIT
package nbcache

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tck-go/tbisim/dbm"
	"github.com/tck-go/tbisim/zone"
)

// Key identifies a pair of discrete configurations: one location vector
// and integer-variable valuation per side. Two keys are equal iff their
// location vectors and integer valuations compare equal; this mirrors
// the certificate-node equality rule in spec's data model (location pair
// only, no identity, no flags).
type Key struct {
	LocLeft  []int
	IntLeft  map[string]int
	LocRight []int
	IntRight map[string]int
}

// signature renders k into a canonical string used as the underlying Go
// map key, since slices and maps are not themselves comparable.
func (k Key) signature() string {
	var b strings.Builder
	writeInts(&b, k.LocLeft)
	b.WriteByte('|')
	writeIntMap(&b, k.IntLeft)
	b.WriteByte('#')
	writeInts(&b, k.LocRight)
	b.WriteByte('|')
	writeIntMap(&b, k.IntRight)
	return b.String()
}

func writeInts(b *strings.Builder, xs []int) {
	for i, x := range xs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(x))
	}
}

func writeIntMap(b *strings.Builder, m map[string]int) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(b, "%s=%d", k, m[k])
	}
}

// entry pairs the original Key (kept for Cache iteration / debugging)
// with its stored refutation container.
type entry struct {
	key       Key
	container *zone.Container
}

// Option configures optional tunables for New, mirroring matrix/options.go
// and bfs/types.go's functional-options idiom.
type Option func(*options)

// options holds the tunables New applies before returning a Cache.
type options struct {
	tableSizeHint int
	containerOpts []zone.Option
}

// WithTableSizeHint preallocates the underlying map for n discrete keys --
// the "--table-size" CLI allocator hint spec.md §6 names. n <= 0 is
// ignored.
func WithTableSizeHint(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.tableSizeHint = n
		}
	}
}

// WithContainerOptions forwards zone.Option values (e.g. a block-size
// capacity hint, or a Combine strategy) to every zone.Container this
// cache creates internally.
func WithContainerOptions(opts ...zone.Option) Option {
	return func(o *options) { o.containerOpts = append(o.containerOpts, opts...) }
}

// Cache is the non-bisim cache: append-only for the lifetime of a run.
type Cache struct {
	byKey         map[string]*entry
	dim           int // virtual-constraint dimension, fixed for the whole run
	containerOpts []zone.Option
}

// New returns an empty cache for virtual constraints of the given
// dimension (1 + shared virtual clock count).
func New(dim int, opts ...Option) *Cache {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	byKey := map[string]*entry{}
	if o.tableSizeHint > 0 {
		byKey = make(map[string]*entry, o.tableSizeHint)
	}
	return &Cache{byKey: byKey, dim: dim, containerOpts: o.containerOpts}
}

// Emplace extends the stored union at (s1, s2)'s discrete key with
// container, then canonicalizes via Combine + Compress. Preconditions
// (per spec §4.5) are the caller's responsibility: s1 and s2 must already
// be virtually equivalent before this is called.
func (c *Cache) Emplace(key Key, container *zone.Container) {
	sig := key.signature()
	e, ok := c.byKey[sig]
	if !ok {
		e = &entry{key: key, container: zone.NewContainer(c.dim, c.containerOpts...)}
		c.byKey[sig] = e
	}
	for _, z := range container.Members() {
		e.container.AppendZone(z)
	}
	e.container = e.container.Combine(c.dim)
}

// AlreadyCached returns the intersection of projected's virtual
// constraint with the stored union for key, or an empty container if
// nothing is cached there. projected must already be a virtual
// constraint (dimension == c.dim).
func (c *Cache) AlreadyCached(key Key, projected *zone.Zone) *zone.Container {
	e, ok := c.byKey[key.signature()]
	if !ok {
		return zone.NewContainer(c.dim, c.containerOpts...)
	}
	return e.container.IntersectContainer(projected)
}

// IsCached is a point query: does the stored union for key contain v?
// v is tested as given, with no projection, so it must already be a
// virtual valuation of length c.dim. Per spec §9's resolved open question, the stored union is
// queried as-is -- it is canonicalized only at write time (Emplace), not
// re-canonicalized here.
func (c *Cache) IsCached(key Key, v []dbm.Rational) bool {
	e, ok := c.byKey[key.signature()]
	if !ok {
		return false
	}
	for _, m := range e.container.Members() {
		if m.Contains(v) {
			return true
		}
	}
	return false
}

// Lookup returns the stored container for key (nil if absent). Exported
// for the contradiction DAG builder, which needs the raw container
// rather than an intersection.
func (c *Cache) Lookup(key Key) (*zone.Container, bool) {
	e, ok := c.byKey[key.signature()]
	if !ok {
		return nil, false
	}
	return e.container, true
}

// Len returns the number of distinct discrete keys cached -- the
// "cached-non-bisim-entries" statistic spec §6 requires.
func (c *Cache) Len() int { return len(c.byKey) }
