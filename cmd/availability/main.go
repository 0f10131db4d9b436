package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"tucancha/internal/api"
	"tucancha/internal/db"
	"tucancha/internal/repository"
	"tucancha/internal/service"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	conn, err := db.Open(dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer conn.Close()

	svc := service.NewAvailabilityService(repository.NewAvailabilityRepository(conn))
	handler := api.NewAvailabilityHandler(svc)

	r := mux.NewRouter()
	// check must register before the {id} route
	r.HandleFunc("/availability/check", handler.CheckAvailability).Methods("GET")
	r.HandleFunc("/availability", handler.ListRecords).Methods("GET")
	r.HandleFunc("/availability", handler.CreateRecord).Methods("POST")
	r.HandleFunc("/availability/{id}", handler.GetRecord).Methods("GET")
	r.HandleFunc("/availability/{id}", handler.UpdateRecord).Methods("PUT")
	r.HandleFunc("/availability/{id}", handler.DeleteRecord).Methods("DELETE")

	port := os.Getenv("AVAILABILITY_PORT")
	if port == "" {
		port = "8082"
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	log.Printf("Availability service running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handlers.LoggingHandler(os.Stdout, cors(r))))
}
