// Package migrations contains the database migration files.
// Each migration registers itself from init(); the package is imported by
// cmd/skystore so every migration is known at CLI startup.
package migrations
