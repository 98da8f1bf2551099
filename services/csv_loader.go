package services

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/recipebox/backend/database"
	"github.com/recipebox/backend/models"
)

// LoadIngredientsCSV bulk-loads the ingredient catalog from rows of
// "name,measurement_unit". Rows that already exist are skipped, so the loader
// can run repeatedly. Returns how many rows were newly created.
func LoadIngredientsCSV(repo *database.IngredientRepo, path string) (int, error) {
	rows, err := readCSV(path)
	if err != nil {
		return 0, err
	}

	created := 0
	for i, row := range rows {
		if len(row) != 2 {
			return created, fmt.Errorf("row %d: expected 2 columns (name, measurement_unit), got %d", i+1, len(row))
		}
		ingredient := &models.Ingredient{Name: row[0], MeasurementUnit: row[1]}
		isNew, err := repo.GetOrCreate(ingredient)
		if err != nil {
			return created, fmt.Errorf("row %d: %w", i+1, err)
		}
		if isNew {
			created++
		}
	}
	log.Info().Str("path", path).Int("created", created).Int("total", len(rows)).Msg("ingredient CSV load complete")
	return created, nil
}

// LoadTagsCSV bulk-loads the tag catalog from rows of "name,color,slug",
// normalizing colors on the way in. Idempotent like the ingredient loader.
func LoadTagsCSV(repo *database.TagRepo, path string) (int, error) {
	rows, err := readCSV(path)
	if err != nil {
		return 0, err
	}

	created := 0
	for i, row := range rows {
		if len(row) != 3 {
			return created, fmt.Errorf("row %d: expected 3 columns (name, color, slug), got %d", i+1, len(row))
		}
		color, err := models.NormalizeColor(row[1])
		if err != nil {
			return created, fmt.Errorf("row %d: %w", i+1, err)
		}
		tag := &models.Tag{Name: row[0], Color: color, Slug: row[2]}
		isNew, err := repo.GetOrCreate(tag)
		if err != nil {
			return created, fmt.Errorf("row %d: %w", i+1, err)
		}
		if isNew {
			created++
		}
	}
	log.Info().Str("path", path).Int("created", created).Int("total", len(rows)).Msg("tag CSV load complete")
	return created, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}
