package amqp

import (
	"encoding/json"
	"time"
)

// Sync actions carried by a TransactionSyncMessage.
const (
	ActionCreate = "create"
	ActionDelete = "delete"
)

// TransactionSyncMessage asks the export worker to reconcile one transaction
// with the statement spreadsheet. It carries only the id and the action; the
// worker fetches the row from the database.
type TransactionSyncMessage struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionSyncMessage(id int64, action string) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		ID:        id,
		Action:    action,
		Timestamp: time.Now(),
	}
}

func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
