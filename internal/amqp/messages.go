package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RowSyncMessage tells the worker that a locally stored row must be appended
// to the remote sheet. The row itself is read from the database by id.
type RowSyncMessage struct {
	MessageID string    `json:"message_id"`
	RowID     int64     `json:"row_id"`
	Table     string    `json:"table"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRowSyncMessage(rowID int64, table string) *RowSyncMessage {
	return &RowSyncMessage{
		MessageID: uuid.NewString(),
		RowID:     rowID,
		Table:     table,
		Timestamp: time.Now().UTC(),
	}
}

func (m *RowSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RowSyncMessageFromJSON(data []byte) (*RowSyncMessage, error) {
	var msg RowSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
