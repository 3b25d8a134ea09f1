package models

// OrchestratorPlan is the ordered, dependency-annotated task list produced
// once per request. It is created by the plan generator (or the fallback
// heuristic), consumed by the task executor, and never persisted beyond the
// request that produced it.
type OrchestratorPlan struct {
	// ID uniquely identifies the plan within a run.
	ID string `json:"id"`
	// Summary is a one-or-two sentence description of the overall approach.
	Summary string `json:"summary"`
	// Tasks is the authoritative execution sequence. The executor walks this
	// slice in listed order, not sorted by Order.
	Tasks []PlannedTask `json:"tasks"`
	// EstimatedFileCount is the sum of per-task target-file counts, with
	// every task that lists none counting as one.
	EstimatedFileCount int `json:"estimatedFileCount"`
}
