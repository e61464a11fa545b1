package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/manas300/portfolio/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
