// Package stream turns one-shot queries into live result streams.
//
// Two pieces cooperate:
//
// The Notifier is a process-wide fan-out of "table T was mutated" events.
// Every successful write names the tables it may have touched; the notifier
// signals every subscription registered for any of those tables. It does not
// know what changed, only that the named tables might have. Table-level
// granularity is a deliberate tradeoff: coarse notifications can cause a
// redundant re-execution but can never miss an update.
//
// Watch binds a re-executable query to the notifier. It runs the query once,
// delivers the initial result, and re-runs it whenever a relevant table is
// mutated. Re-executions of one subscription never overlap: notifications
// land in a coalescing signal (a buffered channel of size one), and a single
// goroutine drains it, so emission order matches notification order. A result
// whose fingerprint equals the last delivered one is suppressed; this module
// emits only on value-changed results, not unconditionally per notification.
//
// Re-executions across subscriptions run on a bounded worker pool owned by
// the Notifier, so a storm of writes cannot spawn an unbounded number of
// concurrent queries.
package stream
