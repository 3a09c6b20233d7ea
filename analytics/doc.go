// Package analytics computes summarized insights from already-fetched
// commerce datasets.
//
// All functions are pure and synchronous: they hold no shared state,
// perform no I/O, and never mutate their inputs, so callers need no
// locking. Missing optional fields (price, stock, customer, items)
// substitute zero/absent defaults rather than failing the computation.
//
// AnalyzeStockLevels classifies every product variant into one of four
// stock buckets and totals inventory quantity and value. AnalyzeOrderTrends
// derives daily order counts, product popularity rankings, and
// customer-behavior metrics from an order list.
package analytics
