package coindcx

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/ismaildudekula/CoinDCX-CLI/pkg/connectors"
	"github.com/ismaildudekula/CoinDCX-CLI/pkg/models"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	Name = "coindcx"

	EventDepthUpdate = "depth-update"
	eventJoin        = "join"

	writeTimeout = 5 * time.Second
)

var (
	ErrServerClosed       = errors.New("server closed the connection")
	ErrServerDisconnected = errors.New("server disconnected the socket")
)

// CoinDCX is the socket.io stream client. It joins one channel and turns
// everything it receives into models.ExchangeMessage values.
// There is no reconnection: Listen returns once the connection is gone.
type CoinDCX struct {
	url     string
	channel string
	logger  zerolog.Logger
}

func NewCoinDCX(streamURL, channel string, logger zerolog.Logger) *CoinDCX {
	return &CoinDCX{
		url:     socketURL(streamURL),
		channel: channel,
		logger:  logger.With().Str("component", "coindcx_stream").Logger(),
	}
}

func socketURL(base string) string {
	if strings.Contains(base, "/socket.io/") {
		return base
	}
	return strings.TrimRight(base, "/") + "/socket.io/?EIO=3&transport=websocket"
}

type session struct {
	c    *CoinDCX
	ws   *connectors.WS
	ch   chan<- models.ExchangeMessage
	ping *time.Ticker
}

// Listen connects, joins the channel and pushes events to ch until the
// connection breaks or ctx is done. A broken connection is reported as a
// MsgTypeTransportError followed by MsgTypeDisconnected, and returned.
func (c *CoinDCX) Listen(ctx context.Context, ch chan<- models.ExchangeMessage) error {
	c.logger.Info().Str("url", c.url).Msg("attempting to connect to CoinDCX websocket")

	s := &session{c: c, ws: &connectors.WS{}, ch: ch}
	if err := s.ws.Connect(ctx, c.url); err != nil {
		err = errors.Wrap(err, "coindcx.Listen failed to connect")
		s.emit(ctx, models.MsgTypeTransportError, err)
		return err
	}
	defer s.ws.Close()
	defer s.stopPing()

	rawCh := make(chan []byte, 100)
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- s.ws.Listen(ctx, rawCh)
	}()

	var err error
loop:
	for {
		var pingC <-chan time.Time
		if s.ping != nil {
			pingC = s.ping.C
		}

		select {
		case msg := <-rawCh:
			if err = s.handle(ctx, msg); err != nil {
				break loop
			}
		case <-pingC:
			if err = s.write(ctx, []byte{eioPing}); err != nil {
				err = errors.Wrap(err, "coindcx.Listen failed to send ping")
				break loop
			}
		case err = <-listenErr:
			// Deliver what was read before the connection broke.
			for drained := false; !drained; {
				select {
				case msg := <-rawCh:
					if herr := s.handle(ctx, msg); herr != nil {
						err, drained = herr, true
					}
				default:
					drained = true
				}
			}
			break loop
		case <-ctx.Done():
			return nil
		}
	}

	if ctx.Err() != nil {
		return nil
	}

	if err != nil {
		c.logger.Error().Err(err).Msg("connection error")
		s.emit(ctx, models.MsgTypeTransportError, err)
	}
	c.logger.Info().Msg("disconnected from CoinDCX websocket")
	s.emit(ctx, models.MsgTypeDisconnected, nil)

	return err
}

func (s *session) handle(ctx context.Context, msg []byte) error {
	p, err := decodePacket(msg)
	if err != nil {
		s.c.logger.Warn().Err(err).Bytes("msg", msg).Msg("dropping packet")
		return nil
	}

	switch p.eio {
	case eioOpen:
		var op openPayload
		if err := json.Unmarshal(p.data, &op); err != nil {
			return errors.Wrap(ErrBadPacket, "bad open packet: "+err.Error())
		}
		s.c.logger.Debug().Str("sid", op.SID).Int64("ping_interval_ms", op.PingInterval).Msg("engine.io open")
		if op.PingInterval > 0 {
			s.stopPing()
			s.ping = time.NewTicker(time.Duration(op.PingInterval) * time.Millisecond)
		}
	case eioPing:
		return s.write(ctx, append([]byte{eioPong}, p.data...))
	case eioPong, eioNoop:
	case eioClose:
		return ErrServerClosed
	case eioMessage:
		return s.handleMessage(ctx, p)
	default:
		s.c.logger.Debug().Bytes("msg", msg).Msg("ignoring engine.io packet")
	}

	return nil
}

func (s *session) handleMessage(ctx context.Context, p packet) error {
	switch p.sio {
	case sioConnect:
		s.c.logger.Info().Msg("connected to CoinDCX websocket")
		join, err := encodeEvent(eventJoin, map[string]string{"channelName": s.c.channel})
		if err != nil {
			return err
		}
		if err := s.write(ctx, join); err != nil {
			return errors.Wrapf(err, "coindcx failed to join %q", s.c.channel)
		}
		s.c.logger.Info().Str("channel", s.c.channel).Msg("joined channel")
		s.emit(ctx, models.MsgTypeConnected, nil)
	case sioDisconnect:
		return ErrServerDisconnected
	case sioError:
		return errors.Errorf("coindcx socket error: %s", string(p.data))
	case sioEvent:
		name, payload, err := decodeEvent(p.data)
		if err != nil {
			s.c.logger.Warn().Err(err).Msg("dropping event")
			return nil
		}
		if name != EventDepthUpdate {
			s.c.logger.Debug().Str("event", name).Msg("ignoring event")
			return nil
		}
		s.emit(ctx, models.MsgTypeDepthUpdate, []byte(payload))
	}

	return nil
}

func (s *session) write(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	return s.ws.Write(ctx, msg)
}

func (s *session) emit(ctx context.Context, tp models.MsgType, payload any) {
	msg := models.ExchangeMessage{
		Exchange:  Name,
		Channel:   s.c.channel,
		Timestamp: time.Now().UTC(),
		MsgType:   tp,
		Payload:   payload,
	}

	select {
	case s.ch <- msg:
	case <-ctx.Done():
	}
}

func (s *session) stopPing() {
	if s.ping != nil {
		s.ping.Stop()
		s.ping = nil
	}
}
