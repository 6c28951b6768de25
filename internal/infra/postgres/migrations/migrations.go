package migrations

import "github.com/uptrace/bun/migrate"

// Migrations is the ordered set applied by the migrate and start commands.
var Migrations = migrate.NewMigrations()
