// Package order contains the Order aggregate and its state machine.
//
// The aggregate owns three things: the macro lifecycle status
// (fetched -> validated -> picking -> packed -> shipped -> delivered, with
// exception and cancelled branches), the warehouse sub-tasks driven by scan
// events (pick lines and pack tasks), and the courier assignment made at
// manifest handover.
//
// All mutation goes through validated methods on the aggregate; transitions
// outside the legal set fail with IllegalTransitionError and leave state
// untouched. Callers serialize access per order id; the aggregate itself is
// not safe for concurrent use.
package order
