package hass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Default timing values, used when Options leaves them zero.
const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultRequestTimeout   = 15 * time.Second
	defaultInitialDelay     = 1 * time.Second
	defaultMaxDelay         = 60 * time.Second
)

// Logger is the optional structured logger interface.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Options holds configuration for creating a Client.
type Options struct {
	// URL is the WebSocket API endpoint, e.g.
	// "ws://homeassistant.local:8123/api/websocket".
	URL string

	// Token is a long-lived access token.
	Token string

	// HandshakeTimeout bounds the dial plus authentication exchange.
	HandshakeTimeout time.Duration

	// RequestTimeout bounds each command round trip.
	RequestTimeout time.Duration

	// ReconnectInitialDelay is the first backoff step after a dropped
	// connection. Doubles up to ReconnectMaxDelay.
	ReconnectInitialDelay time.Duration
	ReconnectMaxDelay     time.Duration

	// ReconnectMaxAttempts limits consecutive failed connection attempts.
	// 0 means unlimited.
	ReconnectMaxAttempts int

	// Logger is optional structured logging.
	Logger Logger

	// OnUpdate is invoked after every cache change: a completed sync, a
	// state_changed event, or a registry resync. The monitor registers
	// its Trigger method here.
	OnUpdate func()
}

// Client maintains a WebSocket connection to Home Assistant and mirrors
// its state, entity, device, and area registries into in-memory caches.
// The caches back the registry.Reader implementation in registry.go.
//
// Thread Safety: All methods are safe for concurrent use.
type Client struct {
	opts Options

	connMu sync.Mutex
	conn   *websocket.Conn

	// writeMu serialises writes; gorilla allows one concurrent writer.
	writeMu sync.Mutex

	// pending maps command IDs to result delivery channels.
	nextID    int64
	pending   map[int64]chan serverMessage
	pendingMu sync.Mutex

	// Registry caches, replaced wholesale on sync.
	cacheMu  sync.RWMutex
	states   map[string]stateObject
	entities map[string]entityRegistryEntry
	devices  map[string]deviceRegistryEntry
	areas    map[string]string
	synced   bool
}

// New creates a client. Call Run to connect and keep the caches fresh.
func New(opts Options) (*Client, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("hass: URL is required")
	}
	if opts.Token == "" {
		return nil, fmt.Errorf("hass: token is required")
	}
	if opts.HandshakeTimeout == 0 {
		opts.HandshakeTimeout = defaultHandshakeTimeout
	}
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.ReconnectInitialDelay == 0 {
		opts.ReconnectInitialDelay = defaultInitialDelay
	}
	if opts.ReconnectMaxDelay == 0 {
		opts.ReconnectMaxDelay = defaultMaxDelay
	}

	return &Client{
		opts:     opts,
		pending:  make(map[int64]chan serverMessage),
		states:   make(map[string]stateObject),
		entities: make(map[string]entityRegistryEntry),
		devices:  make(map[string]deviceRegistryEntry),
		areas:    make(map[string]string),
	}, nil
}

// Run connects to Home Assistant and processes messages until ctx is
// cancelled. Dropped connections are retried with exponential backoff.
// A rejected token is fatal: retrying cannot fix it.
func (c *Client) Run(ctx context.Context) error {
	delay := c.opts.ReconnectInitialDelay
	attempts := 0

	for {
		err := c.runOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, ErrAuthFailed) {
			return err
		}

		attempts++
		if c.opts.ReconnectMaxAttempts > 0 && attempts >= c.opts.ReconnectMaxAttempts {
			return fmt.Errorf("hass: giving up after %d attempts: %w", attempts, err)
		}

		c.logWarn("connection lost, reconnecting",
			"error", err,
			"delay", delay.String(),
			"attempt", attempts)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > c.opts.ReconnectMaxDelay {
			delay = c.opts.ReconnectMaxDelay
		}
	}
}

// runOnce performs one full connection lifecycle: dial, authenticate,
// sync caches, subscribe, and pump messages until the connection drops.
func (c *Client) runOnce(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: c.opts.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, c.opts.URL, nil)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", c.opts.URL, err)
	}

	if err := c.authenticate(conn); err != nil {
		conn.Close() //nolint:errcheck // Best effort cleanup on error path
		return err
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	defer func() {
		c.connMu.Lock()
		c.conn = nil
		c.connMu.Unlock()

		c.cacheMu.Lock()
		c.synced = false
		c.cacheMu.Unlock()

		c.failPending()
		conn.Close() //nolint:errcheck // Connection already broken or superseded
	}()

	// The read pump must run before commands can complete.
	readErr := make(chan error, 1)
	go func() {
		readErr <- c.readLoop(conn)
	}()

	if err := c.syncAndSubscribe(ctx); err != nil {
		conn.Close() //nolint:errcheck // Unblocks the read pump
		<-readErr
		return err
	}

	c.logInfo("connected", "url", c.opts.URL)

	select {
	case <-ctx.Done():
		conn.Close() //nolint:errcheck // Unblocks the read pump
		<-readErr
		return ctx.Err()
	case err := <-readErr:
		return err
	}
}

// authenticate performs the token handshake on a fresh connection.
func (c *Client) authenticate(conn *websocket.Conn) error {
	deadline := time.Now().Add(c.opts.HandshakeTimeout)
	if err := conn.SetReadDeadline(deadline); err != nil {
		return fmt.Errorf("setting handshake deadline: %w", err)
	}

	var hello serverMessage
	if err := conn.ReadJSON(&hello); err != nil {
		return fmt.Errorf("reading auth_required: %w", err)
	}
	if hello.Type != msgTypeAuthRequired {
		return fmt.Errorf("unexpected handshake message %q", hello.Type)
	}

	if err := conn.WriteJSON(authMessage{Type: msgTypeAuth, AccessToken: c.opts.Token}); err != nil {
		return fmt.Errorf("sending auth: %w", err)
	}

	var reply serverMessage
	if err := conn.ReadJSON(&reply); err != nil {
		return fmt.Errorf("reading auth reply: %w", err)
	}

	switch reply.Type {
	case msgTypeAuthOK:
		// Clear the handshake deadline for the long-lived read pump.
		return conn.SetReadDeadline(time.Time{})
	case msgTypeAuthInvalid:
		return fmt.Errorf("%w: %s", ErrAuthFailed, reply.Message)
	default:
		return fmt.Errorf("unexpected auth reply %q", reply.Type)
	}
}

// syncAndSubscribe populates the caches and registers event subscriptions.
func (c *Client) syncAndSubscribe(ctx context.Context) error {
	if err := c.sync(ctx); err != nil {
		return err
	}

	for _, eventType := range []string{
		eventStateChanged,
		eventEntityRegistryUpdated,
		eventDeviceRegistryUpdated,
		eventAreaRegistryUpdated,
	} {
		if _, err := c.command(ctx, cmdSubscribeEvents, eventType); err != nil {
			return fmt.Errorf("subscribing to %s: %w", eventType, err)
		}
	}

	return nil
}

// sync fetches the four registries and replaces the caches atomically.
func (c *Client) sync(ctx context.Context) error {
	statesRaw, err := c.command(ctx, cmdGetStates, "")
	if err != nil {
		return fmt.Errorf("fetching states: %w", err)
	}
	entitiesRaw, err := c.command(ctx, cmdEntityRegistryList, "")
	if err != nil {
		return fmt.Errorf("fetching entity registry: %w", err)
	}
	devicesRaw, err := c.command(ctx, cmdDeviceRegistryList, "")
	if err != nil {
		return fmt.Errorf("fetching device registry: %w", err)
	}
	areasRaw, err := c.command(ctx, cmdAreaRegistryList, "")
	if err != nil {
		return fmt.Errorf("fetching area registry: %w", err)
	}

	var stateList []stateObject
	if err := json.Unmarshal(statesRaw, &stateList); err != nil {
		return fmt.Errorf("decoding states: %w", err)
	}
	var entityList []entityRegistryEntry
	if err := json.Unmarshal(entitiesRaw, &entityList); err != nil {
		return fmt.Errorf("decoding entity registry: %w", err)
	}
	var deviceList []deviceRegistryEntry
	if err := json.Unmarshal(devicesRaw, &deviceList); err != nil {
		return fmt.Errorf("decoding device registry: %w", err)
	}
	var areaList []areaRegistryEntry
	if err := json.Unmarshal(areasRaw, &areaList); err != nil {
		return fmt.Errorf("decoding area registry: %w", err)
	}

	states := make(map[string]stateObject, len(stateList))
	for _, s := range stateList {
		states[s.EntityID] = s
	}
	entities := make(map[string]entityRegistryEntry, len(entityList))
	for _, e := range entityList {
		entities[e.EntityID] = e
	}
	devices := make(map[string]deviceRegistryEntry, len(deviceList))
	for _, d := range deviceList {
		devices[d.ID] = d
	}
	areas := make(map[string]string, len(areaList))
	for _, a := range areaList {
		areas[a.AreaID] = a.Name
	}

	c.cacheMu.Lock()
	c.states = states
	c.entities = entities
	c.devices = devices
	c.areas = areas
	c.synced = true
	c.cacheMu.Unlock()

	c.logInfo("registry sync complete",
		"states", len(states),
		"entities", len(entities),
		"devices", len(devices),
		"areas", len(areas))

	c.notifyUpdate()
	return nil
}

// command sends a request and waits for its result.
func (c *Client) command(ctx context.Context, cmdType, eventType string) (json.RawMessage, error) {
	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()
	if conn == nil {
		return nil, ErrNotConnected
	}

	c.pendingMu.Lock()
	c.nextID++
	id := c.nextID
	ch := make(chan serverMessage, 1)
	c.pending[id] = ch
	c.pendingMu.Unlock()

	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
	}()

	msg := commandMessage{ID: id, Type: cmdType, EventType: eventType}
	c.writeMu.Lock()
	err := conn.WriteJSON(msg)
	c.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("writing %s: %w", cmdType, err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(c.opts.RequestTimeout):
		return nil, fmt.Errorf("%w: %s", ErrRequestTimeout, cmdType)
	case reply, ok := <-ch:
		if !ok {
			return nil, ErrNotConnected
		}
		if !reply.Success {
			if reply.Error != nil {
				return nil, fmt.Errorf("%w: %s: %s", ErrCommandFailed, reply.Error.Code, reply.Error.Message)
			}
			return nil, fmt.Errorf("%w: %s", ErrCommandFailed, cmdType)
		}
		return reply.Result, nil
	}
}

// readLoop pumps messages from the connection until it fails.
func (c *Client) readLoop(conn *websocket.Conn) error {
	for {
		var msg serverMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("reading message: %w", err)
		}

		switch msg.Type {
		case msgTypeResult:
			c.deliverResult(msg)
		case msgTypeEvent:
			c.handleEvent(msg.Event)
		default:
			c.logDebug("ignoring message", "type", msg.Type)
		}
	}
}

// deliverResult hands a command result to its waiting caller.
func (c *Client) deliverResult(msg serverMessage) {
	c.pendingMu.Lock()
	ch, ok := c.pending[msg.ID]
	c.pendingMu.Unlock()

	if ok {
		ch <- msg
	}
}

// failPending closes all in-flight command channels after a disconnect.
func (c *Client) failPending() {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}

// handleEvent applies a subscribed event to the caches.
func (c *Client) handleEvent(raw json.RawMessage) {
	var env eventEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.logWarn("undecodable event", "error", err)
		return
	}

	switch env.EventType {
	case eventStateChanged:
		c.applyStateChange(env.Data)
	case eventEntityRegistryUpdated, eventDeviceRegistryUpdated, eventAreaRegistryUpdated:
		// Registry shape changed: resync in the background so the read
		// pump keeps running (sync issues commands that need it).
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), c.opts.RequestTimeout)
			defer cancel()
			if err := c.sync(ctx); err != nil {
				c.logWarn("registry resync failed", "error", err)
			}
		}()
	}
}

// applyStateChange updates the state cache from a state_changed event.
func (c *Client) applyStateChange(data json.RawMessage) {
	var change stateChangedData
	if err := json.Unmarshal(data, &change); err != nil {
		c.logWarn("undecodable state_changed event", "error", err)
		return
	}

	c.cacheMu.Lock()
	if change.NewState == nil {
		delete(c.states, change.EntityID)
	} else {
		c.states[change.EntityID] = *change.NewState
	}
	c.cacheMu.Unlock()

	c.notifyUpdate()
}

// IsConnected reports whether a synced connection is currently up.
func (c *Client) IsConnected() bool {
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()
	return c.synced
}

// notifyUpdate fires the OnUpdate callback if set.
func (c *Client) notifyUpdate() {
	if c.opts.OnUpdate != nil {
		c.opts.OnUpdate()
	}
}

// logDebug logs a debug message if a logger is set.
func (c *Client) logDebug(msg string, keysAndValues ...any) {
	if c.opts.Logger != nil {
		c.opts.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is set.
func (c *Client) logInfo(msg string, keysAndValues ...any) {
	if c.opts.Logger != nil {
		c.opts.Logger.Info(msg, keysAndValues...)
	}
}

// logWarn logs a warning message if a logger is set.
func (c *Client) logWarn(msg string, keysAndValues ...any) {
	if c.opts.Logger != nil {
		c.opts.Logger.Warn(msg, keysAndValues...)
	}
}
