package semaphore

import (
	"time"

	"github.com/google/uuid"
)

// Dispatch records one send request made to the gateway.
type Dispatch struct {
	Uuid uuid.UUID `sql:",pk,type:uuid" json:"uuid"`

	SenderName string   `sql:",notnull" json:"senderName"`
	Recipients []string `sql:",array" json:"recipients"`
	Message    string   `sql:",notnull" json:"message"`

	StatusCode int    `json:"statusCode"`
	Response   string `json:"response"`
	Error      string `json:"error"`

	CreatedAt time.Time `json:"createdAt"`
}
