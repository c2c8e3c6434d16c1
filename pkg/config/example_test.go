package config_test

import (
	"fmt"

	"github.com/Plantrich-blimp/plantrich-app/pkg/config"
)

// Example demonstrates how to use the config package
func Example() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	fmt.Printf("Server running on port: %s\n", cfg.Port)
	fmt.Printf("Product vault: %s\n", cfg.Catalog.ProductVaultPath)
	fmt.Printf("Projection horizon: %d years\n", cfg.Advisory.ProjectionYears)
}
