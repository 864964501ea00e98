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
//   - DocumentService: Submits, queries and resets the remote index
//   - QueryService: Answers questions against the indexed document
//   - FileInspector: Validates local files before upload
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - DocumentCatalog: Remote document history. Without it, document management is disabled.
//   - CredentialsStore: Token persistence. Without it, the sign-in gate stays open.
//   - UploadHistoryStore: Local record of uploads. Without it, history is empty.
//   - FileWatcher: Change notifications for watch mode.
//   - Sleeper: Pacing delays. Defaults to a real timer.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
