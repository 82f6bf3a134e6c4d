// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - SourceAdapter: Fetches candidate items from one kind of upstream source
//   - SourceRegistry: Selects the adapter for a source kind
//   - HistoryStore: Persists the deduplicated item history
//   - DigestStore: Persists the daily digest
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Model calls. Without it, items get the unconfigured marker and no digest is written.
//   - PromptStore: Prompt templates. Without it, built-in prompts are used.
//   - RunLogStore: Run ledger. Without it, runs are only logged.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
