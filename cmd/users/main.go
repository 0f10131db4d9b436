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

	svc := service.NewUserService(repository.NewUserRepository(conn))
	if err := svc.EnsureDefaultAdmin(context.Background()); err != nil {
		log.Fatalf("Failed to seed default admin: %v", err)
	}

	handler := api.NewUserHandler(svc)

	r := mux.NewRouter()
	// login and by-email must register before the {id} route
	r.HandleFunc("/users/login", handler.Login).Methods("POST")
	r.HandleFunc("/users/by-email/{email}", handler.GetUserByEmail).Methods("GET")
	r.HandleFunc("/users", handler.RegisterUser).Methods("POST")
	r.HandleFunc("/users/{id}", handler.GetUser).Methods("GET")
	r.HandleFunc("/users/{id}", handler.UpdateUser).Methods("PUT")
	r.HandleFunc("/users/{id}/deactivate", handler.DeactivateUser).Methods("PATCH")

	protected := r.PathPrefix("/users").Subrouter()
	protected.Use(auth.RequireAdmin)
	protected.HandleFunc("", handler.ListUsers).Methods("GET")
	protected.HandleFunc("/{id}", handler.DeleteUser).Methods("DELETE")

	port := os.Getenv("USERS_PORT")
	if port == "" {
		port = "8083"
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	log.Printf("Users service running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handlers.LoggingHandler(os.Stdout, cors(r))))
}
