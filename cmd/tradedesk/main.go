package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
)

// @title Trade Desk API
// @version 1.0
// @description Trade document organizer and product catalog.
// @BasePath /
func main() {
	os.Exit(Run())
}
