package netio

import (
	"context"
	"testing"

	"github.com/RevCBH/fiberd/internal/sched"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcceptDialReadWriteRoundTrip(t *testing.T) {
	s := sched.New(sched.Config{WorkerPoolSize: 2})
	defer s.Shutdown()

	ln, err := Listen(s, "tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	serverDone := make(chan string, 1)
	server := s.NewFiber("server", func(ctx context.Context, arg any) any {
		conn, err := ln.Accept()
		require.NoError(t, err)
		buf := make([]byte, 5)
		n, err := conn.Read(buf)
		require.NoError(t, err)
		serverDone <- string(buf[:n])
		_, err = conn.Write([]byte("pong!"))
		require.NoError(t, err)
		return nil
	}, nil)
	server.Start()

	client := s.NewFiber("client", func(ctx context.Context, arg any) any {
		conn, err := Dial(s, "tcp", ln.Addr().String(), 0)
		require.NoError(t, err)
		_, err = conn.Write([]byte("ping!"))
		require.NoError(t, err)
		buf := make([]byte, 5)
		n, err := conn.Read(buf)
		require.NoError(t, err)
		return string(buf[:n])
	}, nil)
	client.Start()

	assert.Equal(t, "pong!", client.Join())
	server.Join()
	assert.Equal(t, "ping!", <-serverDone)
}
