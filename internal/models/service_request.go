package models

import "time"

// Статусы заявки на обслуживание.
const (
	RequestPending   = "pending"
	RequestAccepted  = "accepted"
	RequestRejected  = "rejected"
	RequestCompleted = "completed"
	RequestCancelled = "cancelled"
)

// ServiceRequest заявка клиента к исполнителю по конкретному объявлению.
type ServiceRequest struct {
	ID            int64
	ClientID      int64
	ProviderID    int64
	ListingID     int64
	Description   string
	Address       string
	RequestedDate *time.Time
	RequestedTime string
	Status        string
	CreatedAt     time.Time
}
