// Package logger is a small factory over log/slog with typed attribute
// helpers so components log the same keys everywhere.
package logger
