package domain

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID          uuid.UUID
	UserID      string
	ProductID   int64
	OrderID     uuid.UUID
	OrderItemID string
	Rating      int
	Title       string
	Comment     string
	Recommend   *bool
	CreatedAt   time.Time
}
