package coindcx

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// Engine.IO packet types.
const (
	eioOpen    = '0'
	eioClose   = '1'
	eioPing    = '2'
	eioPong    = '3'
	eioMessage = '4'
	eioNoop    = '6'
)

// Socket.IO packet types, carried inside an Engine.IO message.
const (
	sioConnect    = '0'
	sioDisconnect = '1'
	sioEvent      = '2'
	sioError      = '4'
)

var ErrBadPacket = errors.New("malformed socket.io packet")

type packet struct {
	eio  byte
	sio  byte
	data []byte
}

func decodePacket(msg []byte) (packet, error) {
	if len(msg) == 0 {
		return packet{}, ErrBadPacket
	}

	p := packet{eio: msg[0], data: msg[1:]}
	if p.eio != eioMessage {
		return p, nil
	}

	if len(p.data) == 0 {
		return packet{}, ErrBadPacket
	}

	p.sio = p.data[0]
	p.data = p.data[1:]

	// Skip optional "/namespace," prefix.
	if len(p.data) > 0 && p.data[0] == '/' {
		i := strings.IndexByte(string(p.data), ',')
		if i < 0 {
			p.data = nil
			return p, nil
		}
		p.data = p.data[i+1:]
	}

	// Skip optional ack id.
	i := 0
	for i < len(p.data) && p.data[i] >= '0' && p.data[i] <= '9' {
		i++
	}
	p.data = p.data[i:]

	return p, nil
}

func decodeEvent(data []byte) (string, json.RawMessage, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return "", nil, errors.Wrap(ErrBadPacket, err.Error())
	}
	if len(parts) == 0 {
		return "", nil, errors.Wrap(ErrBadPacket, "empty event")
	}

	var name string
	if err := json.Unmarshal(parts[0], &name); err != nil {
		return "", nil, errors.Wrap(ErrBadPacket, "event name is not a string")
	}

	if len(parts) < 2 {
		return name, nil, nil
	}

	return name, parts[1], nil
}

func encodeEvent(name string, payload any) ([]byte, error) {
	b, err := json.Marshal([]any{name, payload})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode %q event", name)
	}

	return append([]byte{eioMessage, sioEvent}, b...), nil
}

type openPayload struct {
	SID          string `json:"sid"`
	PingInterval int64  `json:"pingInterval"`
	PingTimeout  int64  `json:"pingTimeout"`
}
