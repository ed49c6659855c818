package main

import (
	"log"

	"github.com/maria-mashura/currency-tracker/internal/app"
)

// @title Currency Tracker API
// @version 1.0
// @description Read API over the collected bank exchange rates.
// @BasePath /
func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}
