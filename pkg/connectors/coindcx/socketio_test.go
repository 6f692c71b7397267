package coindcx

import (
	"errors"
	"testing"
)

func TestDecodePacket(t *testing.T) {
	cases := []struct {
		name string
		msg  string
		eio  byte
		sio  byte
		data string
	}{
		{"open", `0{"sid":"abc"}`, eioOpen, 0, `{"sid":"abc"}`},
		{"ping", `2`, eioPing, 0, ``},
		{"connect", `40`, eioMessage, sioConnect, ``},
		{"event", `42["depth-update",{}]`, eioMessage, sioEvent, `["depth-update",{}]`},
		{"event with ack id", `4217["x"]`, eioMessage, sioEvent, `["x"]`},
		{"namespaced event", `42/feed,["x"]`, eioMessage, sioEvent, `["x"]`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, err := decodePacket([]byte(c.msg))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.eio != c.eio || p.sio != c.sio || string(p.data) != c.data {
				t.Errorf("expected %c%c %q, got %c%c %q", c.eio, c.sio, c.data, p.eio, p.sio, string(p.data))
			}
		})
	}

	for _, msg := range []string{"", "4"} {
		if _, err := decodePacket([]byte(msg)); !errors.Is(err, ErrBadPacket) {
			t.Errorf("expected ErrBadPacket for %q, got %v", msg, err)
		}
	}
}

func TestEvent(t *testing.T) {
	b, err := encodeEvent("join", map[string]string{"channelName": "B-BTC_USDT@orderbook@10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `42["join",{"channelName":"B-BTC_USDT@orderbook@10"}]`
	if string(b) != expected {
		t.Fatalf("expected %s, got %s", expected, string(b))
	}

	p, err := decodePacket(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	name, payload, err := decodeEvent(p.data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "join" {
		t.Errorf("expected join event, got %q", name)
	}
	if string(payload) != `{"channelName":"B-BTC_USDT@orderbook@10"}` {
		t.Errorf("unexpected payload %s", payload)
	}

	if _, _, err := decodeEvent([]byte(`[1]`)); !errors.Is(err, ErrBadPacket) {
		t.Errorf("expected ErrBadPacket for numeric event name, got %v", err)
	}
}
