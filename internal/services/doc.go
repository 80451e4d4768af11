// Package services holds the shared error taxonomy for external-tool
// integrations and the clients that implement them.
package services
