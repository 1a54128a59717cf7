// Package ntafixture holds the network-of-timed-automata fixtures for the
// six numbered scenarios worked examples are built from, as reusable
// *vcg.System values instead of the ad hoc local copies each package's
// tests previously hand-rolled.
//
// What: one constructor per scenario, ScenarioN, returning the left and
// right systems as a pair, built directly from vcg.System
// values the way bisim_test.go's original loopSystem/invariantSystem
// helpers did, generalized to cover synchronized two-process
// composition and urgent locations as well.
//
// Grounded on: the local fixtures already hand-written in
// bisim/bisim_test.go, contradiction/build_test.go, witness/build_test.go
// and dot/render_test.go; this package gives them one shared home.
package ntafixture
