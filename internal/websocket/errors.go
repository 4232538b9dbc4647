package websocket

import "errors"

var (
	ErrClientQueueFull = errors.New("client message queue is full")
	ErrClientClosed    = errors.New("client connection is closed")
)

// Коды закрытия websocket при неудачном bind
const (
	CloseUnauthorized = 4401
	CloseRoomNotFound = 4404
)
