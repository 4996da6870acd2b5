package main

import (
	"face-analysis/internal"
	"face-analysis/internal/pkg/service"
	"log"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on process environment")
	}

	action := "run-server"

	processAction(action)
}

func processAction(arg string) {
	log.Println("Processing action:", arg)

	service := service.NewServiceWithRepo()

	switch arg {
	case "run-server":
		internal.RunServer(service)
	default:
		panic("invalid action")
	}
}
