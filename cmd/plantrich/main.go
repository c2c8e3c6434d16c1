package main

import (
	"os"

	"github.com/Plantrich-blimp/plantrich-app/cmd/plantrich/commands"
)

// main is the entry point for the Plantrich CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/plantrich [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
