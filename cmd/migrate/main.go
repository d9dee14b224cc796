package main

import (
	"context"
	"log"

	"bookshelf/internal/app/bootstrap"
)

// Migration entrypoint.
// Applies embedded schema migrations for DATABASE_DRIVER and exits.
func main() {
	app, err := bootstrap.BuildMigrator()
	if err != nil {
		log.Fatalf("bootstrap migrator failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("migrator close failed: %v", err)
		}
	}()

	if err := app.Run(context.Background()); err != nil {
		log.Printf("migration failed: %v", err)
		return
	}
}
