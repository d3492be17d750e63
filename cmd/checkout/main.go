package main

import (
	"net/http"
	"os"

	"bouncebook/internal/checkout/api"
	"bouncebook/pkg/client"
	"bouncebook/pkg/logger"
)

func main() {
	log := logger.New(logger.Config{
		Level:   logger.INFO,
		Format:  logger.JSON,
		Service: "checkout",
	})

	availabilityURL := os.Getenv("AVAILABILITY_BASE_URL")
	if availabilityURL == "" {
		availabilityURL = "http://localhost:8081"
	}
	reservationsURL := os.Getenv("RESERVATIONS_BASE_URL")
	if reservationsURL == "" {
		reservationsURL = "http://localhost:8082"
	}

	port := os.Getenv("CHECKOUT_PORT")
	if port == "" {
		port = "8090"
	}

	apiClient := client.NewClient()
	apiClient.SetServiceClients(availabilityURL, reservationsURL)

	router := api.SetupRouter(apiClient, log)

	addr := ":" + port
	log.Info("Starting Checkout API server",
		"address", addr,
		"availability_url", availabilityURL,
		"reservations_url", reservationsURL,
	)

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
