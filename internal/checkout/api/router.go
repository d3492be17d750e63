package api

import (
	"net/http"

	"bouncebook/internal/checkout/handlers"
	"bouncebook/internal/checkout/service"
	"bouncebook/pkg/client"
	"bouncebook/pkg/logger"
)

func SetupRouter(client *client.Client, log *logger.Logger) *http.ServeMux {
	checkoutService := service.NewCheckoutService(client, log)
	flowHandler := handlers.NewFlowHandler(checkoutService, log)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/checkout/execute", flowHandler.ExecuteFlow)
	mux.HandleFunc("/api/v1/checkout/flows", flowHandler.ListFlows)
	mux.HandleFunc("/api/v1/checkout/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})
	return mux
}
