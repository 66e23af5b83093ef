// Package order holds the Order aggregate and its lifecycle.
//
// An order is created pending from a checked-out cart, then moved through
//
//	pending -> confirmed -> preparing -> ready -> out_for_delivery -> delivered
//
// or to cancelled by the operator. Whether a given move is accepted depends on the
// configured TransitionPolicy: Permissive (the default) accepts any valid target, Monotonic
// only forward moves and cancellation.
//
// Every write records a domain event (CreatedEvent, UpdatedEvent). The unit of work
// publishes them to the change feed after commit; projections use Version to discard
// stale updates.
package order
