// Package witness builds the witness graph: the dual of contradiction's
// certificate, produced when bisim.Run reaches Bisimilar instead of
// NotBisimilar.
//
// What: one node per distinct discrete configuration pair reached from
// the initial states, annotated with the compressed union of virtual
// constraints under which that pair was found consistent; one edge per
// synchronized transition pair, annotated with the virtual-constraint
// region in which it fires. A candidate successor pair is excluded
// whenever the non-bisim cache already holds a refutation entry keyed
// on its location pair -- the same cache the contradiction DAG builder
// reads, reused here as the authoritative "this pair is not consistent"
// signal rather than re-deriving bisim's own row/column matrix check.
//
// Grounded on: bisim.Equalize (reused directly, as contradiction does)
// and the same location-pair signature/dedup idiom package contradiction
// uses; post-processing (edge_cleanup, node_cleanup) is grounded on
// zone.Container's own subsumption-compression idiom (zone.Zone.Le),
// generalized from "drop a subsumed zone" to "drop a subsumed edge".
package witness
