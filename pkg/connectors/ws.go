package connectors

import (
	"context"
	"io"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

type WS struct {
	conn *websocket.Conn
	wmux sync.Mutex
}

func (ws *WS) Connect(ctx context.Context, url string) error {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			body, errR := io.ReadAll(resp.Body)
			if errR != nil {
				return errors.Wrap(err, "failed to read websocket connect response")
			}

			err = errors.Wrapf(err, "got message connecting to ws: %q", string(body))
		}

		return err
	}

	ws.conn = conn
	return nil
}

// Listen pushes every incoming message to ch until the connection breaks
// or ctx is done. Closing the connection on ctx cancellation unblocks the read.
func (ws *WS) Listen(ctx context.Context, ch chan<- []byte) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			ws.conn.Close()
		case <-stop:
		}
	}()

	for {
		_, msg, err := ws.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return errors.Wrap(err, "websocket read error")
		}

		select {
		case ch <- msg:
		case <-ctx.Done():
			return nil
		}
	}
}

func (ws *WS) Write(ctx context.Context, msg []byte) error {
	ws.wmux.Lock()
	defer ws.wmux.Unlock()

	if dl, ok := ctx.Deadline(); ok {
		if err := ws.conn.SetWriteDeadline(dl); err != nil {
			return errors.Wrap(err, "failed to set write deadline")
		}
	}

	return ws.conn.WriteMessage(websocket.TextMessage, msg)
}

func (ws *WS) Close() error {
	if ws.conn == nil {
		return nil
	}

	ws.wmux.Lock()
	_ = ws.conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
	ws.wmux.Unlock()

	return ws.conn.Close()
}
