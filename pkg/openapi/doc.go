// Package openapi exposes the public contracts for the loader and parser
// stages together with the in-memory document model they produce. The
// kin-openapi backed implementations live under internal/openapi so consumers
// never depend on kin-openapi types directly.
package openapi
