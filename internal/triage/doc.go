// Package triage provides the business boundary for Acuity's clinical triage
// system. It defines the severity heuristic, the level registry, the Glasgow
// override, the Engine (classification orchestration with remote fallback),
// the Service (record lifecycle and persistence), the Store interface, and
// the domain models.
package triage
