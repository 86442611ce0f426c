package auth

import (
	"bytes"
	"crypto/cipher"
	"encoding/binary"
	"io"
	"net"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
)

// Conn frames and encrypts data over an underlying net.Conn. Each frame is
// a 4-byte big-endian length followed by a 12-byte nonce and the
// ciphertext. Nonces are counter-based with a direction byte so client and
// server never reuse a nonce under the shared session key.
type Conn struct {
	net.Conn
	aead    cipher.AEAD
	dir     byte
	sendCtr uint64
	recvBuf bytes.Buffer
	mu      sync.Mutex
}

const maxFrameSize = 1 << 20 // 1 MB

const (
	dirClient = 0x01
	dirServer = 0x02
)

// WrapServerConn wraps the server side of a connection with the session key.
func WrapServerConn(conn net.Conn, sessionKey []byte) (net.Conn, error) {
	return wrap(conn, sessionKey, dirServer)
}

// WrapClientConn wraps the client side of a connection with the session key.
func WrapClientConn(conn net.Conn, sessionKey []byte) (net.Conn, error) {
	return wrap(conn, sessionKey, dirClient)
}

func wrap(conn net.Conn, sessionKey []byte, dir byte) (net.Conn, error) {
	aead, err := chacha20poly1305.New(sessionKey)
	if err != nil {
		return nil, err
	}
	return &Conn{Conn: conn, aead: aead, dir: dir}, nil
}

func (c *Conn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	nonce := make([]byte, chacha20poly1305.NonceSize)
	nonce[0] = c.dir
	binary.BigEndian.PutUint64(nonce[4:], c.sendCtr)
	c.sendCtr++

	ct := c.aead.Seal(nil, nonce, p, nil)

	frame := make([]byte, 4+len(nonce)+len(ct))
	binary.BigEndian.PutUint32(frame[:4], uint32(len(nonce)+len(ct)))
	copy(frame[4:], nonce)
	copy(frame[4+len(nonce):], ct)

	if _, err := c.Conn.Write(frame); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *Conn) Read(p []byte) (int, error) {
	if c.recvBuf.Len() == 0 {
		var hdr [4]byte
		if i, err := io.ReadFull(c.Conn, hdr[:]); err != nil {
			return i, err
		}
		length := binary.BigEndian.Uint32(hdr[:])
		if length < chacha20poly1305.NonceSize || length > maxFrameSize {
			return 0, io.ErrUnexpectedEOF
		}

		pkt := make([]byte, length)
		if i, err := io.ReadFull(c.Conn, pkt); err != nil {
			return i, err
		}

		nonce := pkt[:chacha20poly1305.NonceSize]
		ct := pkt[chacha20poly1305.NonceSize:]

		pt, err := c.aead.Open(nil, nonce, ct, nil)
		if err != nil {
			return 0, err
		}
		c.recvBuf.Write(pt)
	}
	return c.recvBuf.Read(p)
}
