package auth

import (
	"bufio"
	"crypto/rand"
	"fmt"
	"io"
)

// Handshake framing:
//
//	client -> server: magic "wAU1\x00" + client_nonce[32]
//	server -> client: "OK\x00" + server_nonce[32]
//
// Both sides then derive the session key from the shared password key and
// the two nonces and switch to the AEAD-framed connection. There is no
// explicit proof step: a client with the wrong password produces
// undecryptable frames and the server drops the connection.
const (
	HandshakeMagic = "wAU1\x00"
	NonceSize      = 32
)

// IsHandshake peeks the reader for the handshake magic without consuming it.
func IsHandshake(r *bufio.Reader) (bool, error) {
	b, err := r.Peek(len(HandshakeMagic))
	if err != nil {
		return false, err
	}
	return string(b) == HandshakeMagic, nil
}

// ServerHandshake consumes the client half from r, answers on w and returns
// the derived session key. The caller must have verified the magic via
// IsHandshake; the magic is consumed here.
func ServerHandshake(r io.Reader, w io.Writer, key []byte) ([]byte, error) {
	magic := make([]byte, len(HandshakeMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("read handshake magic: %w", err)
	}
	clientNonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(r, clientNonce); err != nil {
		return nil, fmt.Errorf("read client nonce: %w", err)
	}

	serverNonce := make([]byte, NonceSize)
	if _, err := rand.Read(serverNonce); err != nil {
		return nil, fmt.Errorf("generate server nonce: %w", err)
	}
	response := append([]byte("OK\x00"), serverNonce...)
	if _, err := w.Write(response); err != nil {
		return nil, fmt.Errorf("write handshake response: %w", err)
	}

	return DeriveSessionKey(key, serverNonce, clientNonce), nil
}

// ClientHandshake runs the client half against w/r and returns the derived
// session key.
func ClientHandshake(r io.Reader, w io.Writer, key []byte) ([]byte, error) {
	clientNonce := make([]byte, NonceSize)
	if _, err := rand.Read(clientNonce); err != nil {
		return nil, fmt.Errorf("generate client nonce: %w", err)
	}
	if _, err := w.Write(append([]byte(HandshakeMagic), clientNonce...)); err != nil {
		return nil, fmt.Errorf("write handshake: %w", err)
	}

	resp := make([]byte, 3+NonceSize)
	if _, err := io.ReadFull(r, resp); err != nil {
		return nil, fmt.Errorf("read handshake response: %w", err)
	}
	if string(resp[:3]) != "OK\x00" {
		return nil, fmt.Errorf("unexpected handshake response")
	}
	serverNonce := resp[3:]

	return DeriveSessionKey(key, serverNonce, clientNonce), nil
}
