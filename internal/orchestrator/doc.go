// Package orchestrator turns a chat message into a generated application.
//
// The orchestrator package provides functionality for:
//   - Planning: asking the model to break a request into ordered agent tasks
//   - Execution: running those tasks strictly one at a time, skipping tasks
//     whose dependencies did not complete
//   - File assembly: merging every agent's file blocks into one path-keyed
//     registry where the last write wins
//
// The Planner component makes a single model call and parses the returned
// JSON plan. When that call fails or returns nothing usable, the
// orchestrator falls back to a keyword-derived plan so a request never dies
// at the planning stage. Each planned task includes:
//   - An order label and the agent role that owns it
//   - A description and optional target file paths
//   - Dependencies on other tasks by order label
//
// Example usage:
//
//	client, _ := api.NewClient(api.ClientConfig{})
//	orch, _ := orchestrator.New(orchestrator.Config{Generator: client})
//	result, err := orch.ProcessRequest(ctx, orchestrator.Request{
//		UserMessage: "Build a todo app with a database",
//	})
package orchestrator
