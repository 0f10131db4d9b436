package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"tucancha/internal/db"
)

// UserDirectory resolves a reservation's user to contact details. The HTTP
// implementation asks the users service.
type UserDirectory interface {
	GetUser(ctx context.Context, id int64) (*db.User, error)
}

// SenderService composes and sends the confirmation and cancellation
// messages for a reservation. Delivery runs in the background so the HTTP
// response never waits on SendGrid or Twilio.
type SenderService struct {
	users UserDirectory
}

func NewSenderService(users UserDirectory) *SenderService {
	return &SenderService{users: users}
}

func (s *SenderService) NotifyReservationStatus(res *db.Reservation, status string) {
	go s.send(res, status)
}

func (s *SenderService) send(res *db.Reservation, status string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := s.users.GetUser(ctx, res.UserID)
	if err != nil {
		log.Printf("ALERT: could not resolve user %d for reservation %d notification: %v", res.UserID, res.ID, err)
		return
	}

	var statusText string
	switch status {
	case db.StatusConfirmed:
		statusText = "confirmada"
	case db.StatusCancelled:
		statusText = "cancelada"
	default:
		statusText = status
	}

	startFormatted := res.StartTime.Format("02 Jan 2006 15:04")
	endFormatted := res.EndTime.Format("02 Jan 2006 15:04")

	subject := fmt.Sprintf("Tu reserva en TuCancha está %s - Reserva #%d", statusText, res.ID)
	plainBody := fmt.Sprintf(
		"Hola %s,\n\nTu reserva en TuCancha está %s.\n\n"+
			"Detalles de la reserva:\n"+
			"Reserva: #%d\n"+
			"Cancha: %d\n"+
			"Inicio: %s\n"+
			"Término: %s\n"+
			"Total: $%.0f\n\n"+
			"Gracias por elegir TuCancha.",
		user.FirstName, statusText, res.ID, res.CourtID, startFormatted, endFormatted, res.TotalPrice,
	)

	if user.Email != "" {
		if err := SendEmailWithSendGrid(user.Email, user.FirstName, subject, plainBody, ""); err != nil {
			log.Printf("ALERT: email for reservation %d failed: %v", res.ID, err)
		}
	}

	if user.Phone != "" {
		smsMessage := fmt.Sprintf("TuCancha: ¡Tu reserva #%d está %s!\nInicio: %s.\nMás detalles en tu correo.",
			res.ID, statusText, res.StartTime.Format("02/01 15:04"))
		if err := SendSMS(user.Phone, smsMessage); err != nil {
			log.Printf("ALERT: SMS for reservation %d to %s failed: %v", res.ID, user.Phone, err)
		}
	}
}
