// Package dedup decides which file in a duplicate group is the original.
//
// Resolve is a pure function over already-collected candidate metadata; the
// filesystem access needed to build candidates lives in Collect. The selection
// is a total order, so reruns over the same group are reproducible regardless
// of discovery order.
package dedup
