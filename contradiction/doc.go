// Package contradiction builds the contradiction DAG: a finite witness
// certifying a "not bisimilar" verdict already reached by bisim.Run and
// recorded in its nbcache.Cache.
//
// What: a single-threaded builder that resolves candidate nodes by
// recursive descent on Go's call stack (there is no explicit work stack
// or work list), following the steps of leaf test,
// synchronization step, delay step, and action step. Node identity
// inside the DAG is location-pair equality only (matching the
// certificate-node equality rule the rest of this module uses); edges
// reference nodes by index into the DAG's node slice, never by pointer,
// so the structure stays a plain value that the dot printer can walk
// without chasing shared ownership.
//
// Grounded on: bisim's own cycle-avoidance idiom (a per-path
// "in-progress" signature set standing in for bfs/dfs's visited-set,
// reused here instead of a hand-rolled frame-stack virtual machine,
// since Go's call stack already gives each recursive descent its own
// frame and the in-progress set is what actually prevents runaway
// non-terminating recursion); bisim.Equalize and bisim.DelayMismatch are
// reused directly rather than re-derived, since the leaf test and the
// synchronization step apply exactly the conditions the bisimulation
// core itself already computed while building the cache.
//
// Documented simplification: the synchronization step (spec §4.7(b)) is
// folded into node construction -- every node this builder ever places
// in the DAG is already run through bisim.Equalize before being
// registered, so there is no separate "unsynchronized node" state to
// clone and re-synchronize. The cycle check spec attaches to that step
// is instead performed at registration time, against the set of
// location-pair signatures already on the current recursion path.
package contradiction
