package main

import (
	"log"

	"showshelf/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ showshelf failed to start: %v", err)
	}
}
