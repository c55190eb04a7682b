// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package transport

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/term"

	"github.com/kbw/scanctl/pkg/wire"
)

// WSBridgeTransport talks to a network-attached bridge over a
// WebSocket, one binary message per exchange: the 9-byte frame out,
// the 9-byte reply in.
type WSBridgeTransport struct {
	conn *websocket.Conn
}

// WSOptions configures OpenWSBridge.
type WSOptions struct {
	URL           string
	Username      string
	Password      string
	SkipSSLVerify bool
}

// OpenWSBridge dials a WebSocket bridge with optional HTTP Basic auth.
func OpenWSBridge(opts WSOptions) (*WSBridgeTransport, error) {
	u, err := url.Parse(opts.URL)
	if err != nil {
		return nil, ioError("parse url", err)
	}
	switch u.Scheme {
	case "ws", "wss":
	default:
		return nil, ioError("dial", fmt.Errorf("unsupported scheme %q (use ws:// or wss://)", u.Scheme))
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{InsecureSkipVerify: opts.SkipSSLVerify}
	}

	headers := http.Header{}
	if opts.Username != "" && opts.Password != "" {
		creds := base64.StdEncoding.EncodeToString([]byte(opts.Username + ":" + opts.Password))
		headers.Set("Authorization", "Basic "+creds)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, opts.URL, headers)
	if err != nil {
		if resp != nil {
			return nil, ioError("dial", fmt.Errorf("HTTP %d: %w", resp.StatusCode, err))
		}
		return nil, ioError("dial", err)
	}
	return &WSBridgeTransport{conn: conn}, nil
}

func (t *WSBridgeTransport) Exchange(ctx context.Context, frame wire.Frame) (wire.Reply, error) {
	if err := ctx.Err(); err != nil {
		return wire.Reply{}, err
	}
	out := wire.EncodeFrame(frame)
	if err := t.conn.WriteMessage(websocket.BinaryMessage, out[:]); err != nil {
		return wire.Reply{}, ioError("websocket write", err)
	}
	kind, data, err := t.conn.ReadMessage()
	if err != nil {
		return wire.Reply{}, ioError("websocket read", err)
	}
	if kind != websocket.BinaryMessage {
		return wire.Reply{}, ioError("websocket read", fmt.Errorf("expected binary message, got kind %d", kind))
	}
	reply, err := wire.DecodeReplyBytes(data)
	if err != nil {
		return wire.Reply{}, ioError("websocket read", err)
	}
	return reply, nil
}

func (t *WSBridgeTransport) Close() error {
	return t.conn.Close()
}

// scanctlPasswordEnv is the environment variable ReadPassword checks
// before prompting.
const scanctlPasswordEnv = "SCANCTL_WS_PASSWORD"

// ReadPassword retrieves the bridge password from the environment or
// prompts on stderr with echo disabled.
func ReadPassword() (string, error) {
	if pw := os.Getenv(scanctlPasswordEnv); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(password), nil
	}
	fmt.Fprintln(os.Stderr)
	return string(passwordBytes), nil
}
