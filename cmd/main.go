package main

import (
	"os"

	"currconv/internal/app"

	"github.com/sirupsen/logrus"
)

// @title Currency Conversion API
// @version 1.0
// @description Converts amounts between currencies with tiered exchange-rate fallback.
// @BasePath /
func main() {
	if err := app.Run(); err != nil {
		logrus.WithError(err).Error("Application stopped with error")
		os.Exit(1)
	}
}
