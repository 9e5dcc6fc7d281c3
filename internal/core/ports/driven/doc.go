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
//   - PostStore: Post persistence, lookup by linked URL, and the commit ledger
//   - FileRepository: Reads and writes linked files on GitHub
//   - Alerter: Out-of-band failure reporting
//   - ConfigStore: Application configuration
//   - TokenProvider: GitHub credentials
//
// # Optional Interfaces
//
// A nil FileRepository passed to outbound sync disables it; saves still succeed.
package driven
