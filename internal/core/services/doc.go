// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO. Only the orchestrator and the
// scheduler log; the gate and digest generator return typed results.
package services
