// Package admin assembles the identity core for the admin dashboard: the
// auth orchestrator, a MongoDB-backed credential store with optimistic
// versioning, and email notifications for invitations and password resets.
package admin
