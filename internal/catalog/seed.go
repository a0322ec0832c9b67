package catalog

import (
	_ "embed"

	"gopkg.in/yaml.v3"

	"krumb/internal/logging"
	"krumb/internal/types"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Products []seedProduct `yaml:"products"`
}

type seedProduct struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Price       float64 `yaml:"price"`
	Image       string  `yaml:"image"`
	Description string  `yaml:"description"`
}

// SeedProducts returns the built-in default catalog. The seed ships
// embedded so a fresh install always has something to sell.
func SeedProducts() []types.Product {
	var f seedFile
	if err := yaml.Unmarshal(seedYAML, &f); err != nil {
		// The embedded file is compiled in; a parse failure means a bad
		// edit, not a runtime condition. Surface it loudly in logs and
		// sell nothing rather than crash.
		logging.Get(logging.CategoryCatalog).Error("Embedded seed unparsable: %v", err)
		return nil
	}

	out := make([]types.Product, 0, len(f.Products))
	for _, p := range f.Products {
		out = append(out, types.Product{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.Price,
			Image:       p.Image,
			Description: p.Description,
		})
	}
	return out
}
