// Package tui runs a document wizard in the terminal. A Runner maps each step
// type to prompts on a PromptDriver (survey by default, a stub in tests),
// commits the answers through the orchestrator and serializes the collected
// answer set once the final step is reached.
package tui
