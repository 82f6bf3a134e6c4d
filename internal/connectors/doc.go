// Package connectors provides the source adapters that turn upstream
// listings into candidate items. Each adapter serves one source kind
// (feed, catalog) and is registered with the Registry at startup.
//
// Adapters never log. A failed fetch is returned as a *domain.SourceError
// and the orchestrator decides how loudly to report it.
package connectors
