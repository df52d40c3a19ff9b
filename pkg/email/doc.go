// Package email abstracts transactional mail delivery behind the Sender
// interface, with a Postmark implementation for production and a file-based
// DevSender for local development.
package email
