// Package internal documents the EventHub server internals.
//
// The internal tree is organized by responsibility:
// - api: Mason handlers, middleware, hypermedia controls and routing
// - domain: events, users, organizations and the links between them
// - storage: Postgres repositories and an in-memory store for tests
// - jobs, email: follower notifications delivered through River
// - config, metrics, telemetry, audit: shared infrastructure
//
// Code in internal/ is not meant for external import.
package internal
