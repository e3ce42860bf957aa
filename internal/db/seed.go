package db

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vrnomarket/internal/models"
)

type seedFile struct {
	AdminConfigs  map[string]string `yaml:"admin_configs"`
	TokenPackages []struct {
		Name       string `yaml:"name"`
		Tokens     int64  `yaml:"tokens"`
		PriceCents int64  `yaml:"price_cents"`
		SortOrder  int    `yaml:"sort_order"`
	} `yaml:"token_packages"`
}

// Seed inserts baseline configuration rows. Existing rows are never
// overwritten, so re-running at startup is safe. path may be empty, in which
// case only the maintenance_mode default is ensured.
func Seed(ctx context.Context, database *gorm.DB, path string) error {
	defaults := map[string]string{"maintenance_mode": "false"}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read seed file: %w", err)
		}
		var sf seedFile
		if err := yaml.Unmarshal(raw, &sf); err != nil {
			return fmt.Errorf("parse seed file: %w", err)
		}
		for key, value := range sf.AdminConfigs {
			defaults[key] = value
		}
		for _, pkg := range sf.TokenPackages {
			row := models.TokenPackage{
				ID:         uuid.New(),
				Name:       pkg.Name,
				Tokens:     pkg.Tokens,
				PriceCents: pkg.PriceCents,
				SortOrder:  pkg.SortOrder,
				Active:     true,
			}
			if err := database.WithContext(ctx).
				Where(models.TokenPackage{Name: pkg.Name}).
				Attrs(row).
				FirstOrCreate(&models.TokenPackage{}).Error; err != nil {
				return fmt.Errorf("seed token package %q: %w", pkg.Name, err)
			}
		}
	}

	for key, value := range defaults {
		cfg := models.AdminConfig{ConfigKey: key, ConfigValue: value}
		if err := database.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&cfg).Error; err != nil {
			return fmt.Errorf("seed admin config %q: %w", key, err)
		}
	}

	return nil
}
