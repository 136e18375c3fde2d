// Package orchestration runs one active-learning classifier under several
// labeling budgets in parallel and aggregates the runs into a single
// composite result.
//
// Each budget value is bound to a numeric learner parameter, applied to an
// independent learner copy, and evaluated by its own prequential subtask
// inside a worker unit. A single aggregation goroutine polls the units on a
// fixed interval, merges their partial learning curves into the composite
// collection in budget order (never past the first variant that has not
// reported yet), publishes the unweighted mean completion fraction, and
// honors cooperative abort and context cancellation.
package orchestration
