// Package services implements the driving port interfaces.
// Services hold the case lookup and document ingestion logic and
// orchestrate calls to driven ports (adapters).
package services
