// Package remote connects the client to the replay server. The network
// goroutine only moves frames; a Receiver on the UI goroutine turns them
// into playback games.
package remote

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"

	"battlecode-client/internal/protocol"
	"battlecode-client/pkg/logger"
)

const (
	dialTimeout  = 10 * time.Second
	maxFrameSize = 64 << 20
)

// Frame is one websocket message: a binary replay event or a text message.
type Frame struct {
	Binary  []byte
	Message *protocol.Message
}

// NetworkClient reads frames from one server websocket at a time.
type NetworkClient struct {
	conn   *websocket.Conn
	recv   chan Frame
	cancel context.CancelFunc
	err    error
	mu     sync.Mutex

	connected bool
}

// NewNetworkClient creates a disconnected client.
func NewNetworkClient() *NetworkClient {
	recv := make(chan Frame)
	close(recv)
	return &NetworkClient{recv: recv}
}

// Connect dials addr and starts reading. Any previous connection is closed.
func (c *NetworkClient) Connect(ctx context.Context, addr string) error {
	c.Disconnect()

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	log := logger.Component("network").WithField("url", addr)
	conn, _, err := websocket.Dial(dialCtx, addr, nil)
	if err != nil {
		log.WithError(err).Warn("websocket dial failed")
		return err
	}
	conn.SetReadLimit(maxFrameSize)
	log.Info("websocket connection established")

	readCtx, stop := context.WithCancel(context.Background())
	recv := make(chan Frame, 256)

	c.mu.Lock()
	c.conn = conn
	c.recv = recv
	c.cancel = stop
	c.err = nil
	c.connected = true
	c.mu.Unlock()

	go c.readPump(readCtx, conn, recv)
	return nil
}

// Disconnect closes the connection. Recv is closed once the read pump
// stops.
func (c *NetworkClient) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return
	}
	c.connected = false
	c.conn.Close(websocket.StatusNormalClosure, "")
	c.cancel()
}

// IsConnected returns true while the read pump is running.
func (c *NetworkClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Recv returns the channel of received frames for the current connection.
// It is closed when the connection ends.
func (c *NetworkClient) Recv() <-chan Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recv
}

// Err returns why the last connection ended, or nil for a normal close.
func (c *NetworkClient) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *NetworkClient) readPump(ctx context.Context, conn *websocket.Conn, recv chan Frame) {
	log := logger.Component("network")
	var readErr error
	defer func() {
		c.mu.Lock()
		if c.conn == conn {
			c.connected = false
			c.err = readErr
		}
		c.mu.Unlock()
		close(recv)
	}()

	for {
		kind, data, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && ctx.Err() == nil {
				log.WithError(err).Warn("websocket read error")
				readErr = err
			}
			return
		}

		var f Frame
		if kind == websocket.MessageBinary {
			f.Binary = data
		} else {
			msg, err := protocol.Decode(data)
			if err != nil {
				log.WithError(err).Warn("failed to decode message")
				continue
			}
			f.Message = msg
		}

		select {
		case recv <- f:
		case <-ctx.Done():
			return
		}
	}
}

// websocketBase turns a server address into a ws or wss URL.
func websocketBase(server string) (*url.URL, error) {
	if !strings.Contains(server, "://") {
		server = "http://" + server
	}
	u, err := url.Parse(server)
	if err != nil {
		return nil, fmt.Errorf("bad server address %q: %w", server, err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return nil, fmt.Errorf("bad server address %q: unsupported scheme", server)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("bad server address %q: missing host", server)
	}
	return u, nil
}

// StreamURL returns the websocket URL that streams a stored replay. A
// negative interval keeps the server's pace.
func StreamURL(server, replayID string, interval time.Duration) (string, error) {
	u, err := websocketBase(server)
	if err != nil {
		return "", err
	}
	u.Path = path.Join("/", u.Path, "ws", "replays", url.PathEscape(replayID))
	if interval >= 0 {
		u.RawQuery = url.Values{"interval_ms": {strconv.FormatInt(interval.Milliseconds(), 10)}}.Encode()
	}
	return u.String(), nil
}

// LiveURL returns the websocket URL of the live run feed.
func LiveURL(server string) (string, error) {
	u, err := websocketBase(server)
	if err != nil {
		return "", err
	}
	u.Path = path.Join("/", u.Path, "ws", "live")
	return u.String(), nil
}

// HTTPBase returns the http or https form of a server address.
func HTTPBase(server string) (string, error) {
	u, err := websocketBase(server)
	if err != nil {
		return "", err
	}
	if u.Scheme == "wss" {
		u.Scheme = "https"
	} else {
		u.Scheme = "http"
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String(), nil
}
