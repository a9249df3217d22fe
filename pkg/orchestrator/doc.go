// Package orchestrator wires the loader, parser, schema trace and template
// binder into a single call for consumers that want one entry point.
package orchestrator
