package domain

import (
	"encoding/json"
	"fmt"
)

// Notification event types.
const (
	NotifyRoomListing   = "room_listing"
	NotifyRoomSearching = "room_searching"
)

// NotificationEvent is a transient value object handed to the mail
// dispatcher, either inline or through the queue. It is never persisted and
// consumed exactly once.
type NotificationEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func NewListingNotification(l *RoomListing) (NotificationEvent, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return NotificationEvent{}, fmt.Errorf("encode listing notification: %w", err)
	}
	return NotificationEvent{Type: NotifyRoomListing, Data: data}, nil
}

func NewSearchNotification(s *RoomSearchRequest) (NotificationEvent, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return NotificationEvent{}, fmt.Errorf("encode search notification: %w", err)
	}
	return NotificationEvent{Type: NotifyRoomSearching, Data: data}, nil
}
