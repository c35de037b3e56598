package main

import (
	"log"

	"github.com/tapfolio/tapfolio/cmd/app"
	"github.com/tapfolio/tapfolio/internal/adapters/config"
)

func main() {
	cfg := config.Get()
	a, err := app.New(cfg)
	if err != nil {
		log.Panic(err)
	}

	a.Start()
}
