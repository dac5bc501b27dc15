package main

import (
	"context"
	"log"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/app"
)

func main() {
	a, err := app.New(context.Background())
	if err != nil {
		log.Fatalf("❌ linkpulse failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ linkpulse stopped with error: %v", err)
	}
}
