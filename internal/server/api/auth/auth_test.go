package auth_test

import (
	"bufio"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seyoka/wiimoted/internal/server/api/auth"
)

func TestGenerateKey(t *testing.T) {
	k1, err := auth.GenerateKey()
	require.NoError(t, err)
	assert.Len(t, k1, auth.AutoGenKeyLength)

	k2, err := auth.GenerateKey()
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}

func TestDeriveKeyDeterministic(t *testing.T) {
	k1, err := auth.DeriveKey("hunter2")
	require.NoError(t, err)
	k2, err := auth.DeriveKey("hunter2")
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 32)

	k3, err := auth.DeriveKey("other")
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)
}

func TestDeriveKeyEmptyPassword(t *testing.T) {
	_, err := auth.DeriveKey("")
	assert.Error(t, err)
}

func TestHandshakeDerivesSharedSessionKey(t *testing.T) {
	key, err := auth.DeriveKey("hunter2")
	require.NoError(t, err)

	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	type result struct {
		key []byte
		err error
	}
	serverCh := make(chan result, 1)
	go func() {
		r := bufio.NewReader(server)
		ok, err := auth.IsHandshake(r)
		if err != nil || !ok {
			serverCh <- result{err: err}
			return
		}
		k, err := auth.ServerHandshake(r, server, key)
		serverCh <- result{key: k, err: err}
	}()

	clientKey, err := auth.ClientHandshake(client, client, key)
	require.NoError(t, err)

	srv := <-serverCh
	require.NoError(t, srv.err)
	assert.Equal(t, srv.key, clientKey)
	assert.Len(t, clientKey, 32)
}

func TestEncryptedConnRoundTrip(t *testing.T) {
	key, err := auth.DeriveKey("hunter2")
	require.NoError(t, err)
	sessionKey := auth.DeriveSessionKey(key, make([]byte, auth.NonceSize), make([]byte, auth.NonceSize))

	client, server := net.Pipe()
	cConn, err := auth.WrapClientConn(client, sessionKey)
	require.NoError(t, err)
	sConn, err := auth.WrapServerConn(server, sessionKey)
	require.NoError(t, err)

	go func() {
		_, _ = cConn.Write([]byte("status\x00"))
	}()

	buf := make([]byte, 16)
	n, err := sConn.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "status\x00", string(buf[:n]))

	go func() {
		_, _ = sConn.Write([]byte(`{"connected":true}`))
	}()
	big := make([]byte, 32)
	n, err = cConn.Read(big)
	require.NoError(t, err)
	assert.Equal(t, `{"connected":true}`, string(big[:n]))
}

func TestEncryptedConnRejectsWrongKey(t *testing.T) {
	good, err := auth.DeriveKey("hunter2")
	require.NoError(t, err)
	bad, err := auth.DeriveKey("wrong")
	require.NoError(t, err)
	nonces := make([]byte, auth.NonceSize)

	client, server := net.Pipe()
	cConn, err := auth.WrapClientConn(client, auth.DeriveSessionKey(bad, nonces, nonces))
	require.NoError(t, err)
	sConn, err := auth.WrapServerConn(server, auth.DeriveSessionKey(good, nonces, nonces))
	require.NoError(t, err)

	go func() {
		_, _ = cConn.Write([]byte("status\x00"))
	}()

	buf := make([]byte, 16)
	_, err = sConn.Read(buf)
	assert.Error(t, err)
}
