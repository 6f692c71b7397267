package models

import (
	"time"
)

type MsgType uint8

const (
	MsgTypeDepthUpdate MsgType = iota
	MsgTypeConnected
	MsgTypeDisconnected
	MsgTypeTransportError
)

func (t MsgType) String() string {
	switch t {
	case MsgTypeDepthUpdate:
		return "depth-update"
	case MsgTypeConnected:
		return "connected"
	case MsgTypeDisconnected:
		return "disconnected"
	case MsgTypeTransportError:
		return "transport-error"
	}
	return "unknown"
}

// ExchangeMessage is a single typed event coming from a stream connector.
// Payload is []byte (raw depth-update envelope) for MsgTypeDepthUpdate and
// error for MsgTypeTransportError. Other types carry no payload.
type ExchangeMessage struct {
	Exchange  string
	Channel   string
	Timestamp time.Time
	MsgType   MsgType
	Payload   any
}
