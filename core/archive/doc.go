// Package archive uploads persisted run reports to S3-compatible object
// storage. Local report files are the primary audit artifact; the archive
// adds off-host retention for deployments where the sync box is ephemeral.
package archive
