package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/octobees/house-price-estimator/cmd/estimate/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
