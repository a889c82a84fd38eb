package realtime

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Koneksi yang bertahan selama ini (atau sempat mengirim pesan) dianggap sehat,
// jeda reconnect kembali ke interval awal.
const DefaultStableAfter = 30 * time.Second

// Client membaca live channel backend dan meneruskan tiap pesan ke Registry
type Client struct {
	url         string
	registry    *Registry
	dialer      *websocket.Dialer
	maxElapsed  time.Duration
	stableAfter time.Duration
	reconnect   *backoff.ExponentialBackOff
	log         *logrus.Entry
}

func NewClient(url string, registry *Registry, maxElapsed time.Duration) *Client {
	return &Client{
		url:         url,
		registry:    registry,
		dialer:      &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		maxElapsed:  maxElapsed,
		stableAfter: DefaultStableAfter,
		reconnect:   backoff.NewExponentialBackOff(),
		log:         logrus.WithField("component", "live"),
	}
}

// Run terhubung ulang terus sampai ctx selesai atau dial gagal melebihi maxElapsed.
// Setelah koneksi putus, Run menunggu jeda exponential sebelum dial lagi; jeda hanya
// di-reset kalau koneksi sebelumnya sehat.
func (c *Client) Run(ctx context.Context, token string) error {
	for {
		conn, err := c.connect(ctx, token)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		c.log.Info("live channel connected")
		connectedAt := time.Now()
		delivered, err := c.serve(ctx, conn)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if delivered || time.Since(connectedAt) >= c.stableAfter {
			c.reconnect.Reset()
		}
		wait := c.reconnect.NextBackOff()
		c.log.WithError(err).Warnf("live channel lost, reconnecting in %s", wait)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (c *Client) connect(ctx context.Context, token string) (*websocket.Conn, error) {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	dial := func() (*websocket.Conn, error) {
		conn, resp, err := c.dialer.DialContext(ctx, c.url, header)
		if err != nil {
			if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
				return nil, backoff.Permanent(fmt.Errorf("live channel rejected credential: %s", resp.Status))
			}
			return nil, err
		}
		return conn, nil
	}

	return backoff.Retry(ctx, dial,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(c.maxElapsed),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.log.WithError(err).Warnf("live channel dial failed, retry in %s", next)
		}),
	)
}

// serve membaca sampai koneksi putus. delivered true kalau minimal satu pesan diterima.
func (c *Client) serve(ctx context.Context, conn *websocket.Conn) (bool, error) {
	delivered := false
	done := make(chan struct{})
	defer close(done)
	defer conn.Close()

	// ReadMessage tidak menerima context, tutup koneksi supaya read loop berhenti
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return delivered, err
		}
		delivered = true
		if _, err := c.registry.DispatchRaw(data); err != nil {
			c.log.WithError(err).Warn("envelope dropped")
		}
	}
}
