package main

import (
	"storefront/internal/infra/persistence/model"

	"gorm.io/gen"
)

// Generates type-safe query helpers for every persistence model.
func main() {
	g := gen.NewGenerator(gen.Config{
		OutPath:       "./internal/infra/persistence/postgres/query",
		Mode:          gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable: true,
	})

	g.ApplyBasic(model.All()...)

	g.Execute()
}
