// Package views holds the read projections that keep customer and operator screens in step
// with the order store without polling.
//
// Both projections follow the same reconciliation protocol:
//
//  1. subscribe to the change feed, buffering events;
//  2. fetch the authoritative state from the store;
//  3. apply the buffered events on top of the fetch, then apply live events as they come.
//
// Events for an order win over the fetch unless they carry a lower version than the cached
// snapshot, in which case they are stale and dropped. When the feed drops a subscriber for
// lagging, the projection starts over at step 1.
package views
