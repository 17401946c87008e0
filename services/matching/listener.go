package matching

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"saubio/models"
)

const (
	// Time allowed to read the next message or pong from the API.
	pongWait = 60 * time.Second

	minBackoff = time.Second
	maxBackoff = 30 * time.Second

	maxMessageSize = 8 << 10
)

// Listener consumes the API's matching progress stream and feeds a Tracker.
type Listener struct {
	url     string
	header  http.Header
	tracker *Tracker
	dialer  *websocket.Dialer
	logger  *zap.Logger
}

func NewListener(url string, header http.Header, tracker *Tracker, logger *zap.Logger) *Listener {
	return &Listener{
		url:     url,
		header:  header,
		tracker: tracker,
		dialer:  websocket.DefaultDialer,
		logger:  logger,
	}
}

// Run reconnects with exponential backoff until ctx is done.
func (l *Listener) Run(ctx context.Context) {
	backoff := minBackoff
	for {
		started := time.Now()
		err := l.consume(ctx)
		if ctx.Err() != nil {
			return
		}
		if time.Since(started) > maxBackoff {
			backoff = minBackoff
		}
		l.logger.Warn("matching stream disconnected", zap.Error(err), zap.Duration("retryIn", backoff))

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		backoff = min(backoff*2, maxBackoff)
	}
}

// consume reads events from one connection until it fails or ctx ends.
func (l *Listener) consume(ctx context.Context) error {
	conn, _, err := l.dialer.DialContext(ctx, l.url, l.header)
	if err != nil {
		return err
	}
	defer conn.Close()
	l.logger.Info("matching stream connected", zap.String("url", l.url))

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	})
	defer stop()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(data string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return errors.New("stream closed by server")
			}
			return err
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		var ev models.MatchingProgressEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			l.logger.Debug("skipping malformed matching event", zap.Error(err))
			continue
		}
		l.tracker.Record(ev)
	}
}
