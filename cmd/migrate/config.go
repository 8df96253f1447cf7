package main

import (
	"os"
	"path/filepath"

	"bookshelf/internal/platform/database"
)

// migrationsDir is where `create` writes new files. The server embeds the
// same directory, so new migrations ship with the next build.
func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("internal", "platform", "database", database.MigrationsDir)
}
