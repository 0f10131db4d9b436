package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"tucancha/internal/api"
	"tucancha/internal/auth"
	"tucancha/internal/db"
	"tucancha/internal/queue"
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

	availabilityURL := os.Getenv("AVAILABILITY_URL")
	if availabilityURL == "" {
		availabilityURL = "http://localhost:8082"
	}
	usersURL := os.Getenv("USERS_URL")
	if usersURL == "" {
		usersURL = "http://localhost:8083"
	}

	notifier := service.NewAvailabilityClient(availabilityURL)
	sender := service.NewSenderService(service.NewUserClient(usersURL))
	svc := service.NewReservationService(
		repository.NewReservationRepository(conn),
		notifier,
		queue.NewPublisher(),
		sender,
	)

	jobSvc := service.NewJobService(repository.NewJobRepository(conn))
	c := cron.New()
	c.AddFunc("@every 10m", func() {
		if err := jobSvc.CompleteFinishedReservations(context.Background()); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
	})
	c.AddFunc("@hourly", func() {
		if err := jobSvc.DeleteOldPendingReservations(context.Background(), 24*time.Hour); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
	})
	c.Start()
	defer c.Stop()

	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("Reservation consumer stopped: %v", err)
		}
	}()

	handler := api.NewReservationHandler(svc)

	r := mux.NewRouter()
	// availability check must register before the {id} route
	r.HandleFunc("/reservations/availability", handler.CheckAvailability).Methods("GET")
	r.HandleFunc("/reservations", handler.ListReservations).Methods("GET")
	r.HandleFunc("/reservations", handler.CreateReservation).Methods("POST")
	r.HandleFunc("/reservations/{id}", handler.GetReservation).Methods("GET")
	r.HandleFunc("/reservations/{id}", handler.UpdateReservation).Methods("PUT")
	r.HandleFunc("/reservations/{id}/{action}", handler.UpdateStatus).Methods("PATCH")

	protected := r.PathPrefix("/reservations").Subrouter()
	protected.Use(auth.RequireAdmin)
	protected.HandleFunc("/{id}", handler.DeleteReservation).Methods("DELETE")

	port := os.Getenv("RESERVATIONS_PORT")
	if port == "" {
		port = "8084"
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	log.Printf("Reservations service running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handlers.LoggingHandler(os.Stdout, cors(r))))
}
