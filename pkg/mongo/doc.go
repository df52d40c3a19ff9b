// Package mongo bootstraps a MongoDB client from environment configuration
// with connection retries and a readiness probe helper.
package mongo
