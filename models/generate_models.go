package models

import (
	"fmt"
	"log"
	"os"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GenerateModels migrates the schema and emits typed query helpers under
// ./generated. Run with GENERATE_MODELS=true; the server does not start in
// that mode.
func GenerateModels(db *gorm.DB) {
	// First, ensure the database is ready
	if err := db.Exec("SELECT 1").Error; err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	db = db.Session(&gorm.Session{
		Logger:                 newLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})

	g.UseDB(db)

	g.ApplyBasic(
		User{},
		Recipe{},
		RecipeIngredient{},
		Ingredient{},
		Tag{},
		Favorite{},
		ShoppingCartItem{},
		Subscription{},
	)

	fmt.Println("Migrating models...")
	if err := db.AutoMigrate(
		&User{},
		&Ingredient{},
		&Tag{},
		&Recipe{},
		&RecipeIngredient{},
		&Favorite{},
		&ShoppingCartItem{},
		&Subscription{},
	); err != nil {
		fmt.Printf("Error during models migration: %v\n", err)
		os.Exit(1)
	}

	g.Execute()
	fmt.Println("Model generation complete!")
}
