package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"tucancha/internal/api"
	"tucancha/internal/auth"
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

	svc := service.NewCourtService(repository.NewCourtRepository(conn))
	if err := svc.EnsureDefaultCourts(context.Background()); err != nil {
		log.Fatalf("Failed to seed courts: %v", err)
	}

	handler := api.NewCourtHandler(svc)

	r := mux.NewRouter()
	r.HandleFunc("/courts", handler.ListCourts).Methods("GET")
	r.HandleFunc("/courts/{id}", handler.GetCourt).Methods("GET")

	protected := r.PathPrefix("/courts").Subrouter()
	protected.Use(auth.RequireAdmin)
	protected.HandleFunc("", handler.CreateCourt).Methods("POST")
	protected.HandleFunc("/{id}", handler.UpdateCourt).Methods("PUT")
	protected.HandleFunc("/{id}/deactivate", handler.DeactivateCourt).Methods("PATCH")
	protected.HandleFunc("/{id}", handler.DeleteCourt).Methods("DELETE")

	port := os.Getenv("COURTS_PORT")
	if port == "" {
		port = "8081"
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	log.Printf("Courts service running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handlers.LoggingHandler(os.Stdout, cors(r))))
}
