package models

import "time"

// Transaction history actions recorded by the inventory API.
const (
	HistoryActionCreated         = "created"
	HistoryActionUpdated         = "updated"
	HistoryActionQuantityChanged = "quantity_changed"
)

// TransactionHistoryEntry is a read-only audit record attached to a product.
// QuantityChanged is signed: negative for stock removed.
type TransactionHistoryEntry struct {
	ID              string    `json:"id"`
	Action          string    `json:"action"`
	QuantityChanged int       `json:"quantity_changed"`
	Timestamp       time.Time `json:"timestamp"`
}
