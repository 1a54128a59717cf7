// Package dot renders a contradiction DAG or a witness graph as DOT.
//
// What: both graphs are first mapped into a small internal tagged sum
// (node base record -- id, location pair, initial flag -- plus a
// variant payload: contradiction carries valuations/finality, witness
// carries a condition container, nothing else carries a payload) and
// printed by one shared writer that dispatches on the variant exactly
// once per node/edge. This follows spec §9's redesign note directly:
// "deep class hierarchy ... should become a tagged sum ... polymorphic
// attributes() calls become a single dispatch in the printer" -- rather
// than Contradiction and Witness each owning a parallel printer.
//
// Ordering: node ids are exactly the input graph's assigned indices;
// the *printed order* of nodes and edges is a lexical sort over their
// rendered attribute strings, per spec §6's "lexical-sorted order"
// requirement -- printed order is therefore independent of id order.
package dot
