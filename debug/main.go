package main

import (
	"github.com/emrgen/okr/internal/config"
	"github.com/emrgen/okr/internal/server"
	"github.com/sirupsen/logrus"
)

// runs the server with debug logging and a local sqlite database
func main() {
	cfg := config.LoadConfig()
	logrus.SetLevel(logrus.DebugLevel)

	if err := server.Start(cfg); err != nil {
		logrus.Fatalf("error starting server: %v", err)
	}
}
