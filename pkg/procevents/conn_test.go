// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Procmond

package procevents

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openOrSkip opens a connector channel, skipping the test on hosts where
// the caller lacks CAP_NET_ADMIN.
func openOrSkip(t *testing.T) *Conn {
	t.Helper()
	conn, err := Open()
	if err != nil {
		t.Skipf("cannot open process connector (requires CAP_NET_ADMIN): %v", err)
	}
	return conn
}

func TestOpenTwiceIndependentHandles(t *testing.T) {
	a := openOrSkip(t)
	defer a.Close()
	b := openOrSkip(t)
	defer b.Close()

	// Two opens share no hidden state; both expose their own descriptor.
	ra, err := a.SyscallConn()
	require.NoError(t, err)
	rb, err := b.SyscallConn()
	require.NoError(t, err)
	assert.NotNil(t, ra)
	assert.NotNil(t, rb)

	// Closing one leaves the other usable.
	require.NoError(t, a.Close())
	require.NoError(t, b.SetListening(false))
}

func TestSetListeningToggle(t *testing.T) {
	conn := openOrSkip(t)
	defer conn.Close()

	require.NoError(t, conn.SetListening(true))
	// Idempotent: repeating the same mode is safe.
	require.NoError(t, conn.SetListening(true))
	require.NoError(t, conn.SetListening(false))
}

func TestReceiveAfterCloseReportsShutdown(t *testing.T) {
	conn := openOrSkip(t)
	require.NoError(t, conn.Close())

	_, err := conn.ReceiveEvent()
	assert.True(t, errors.Is(err, ErrConnClosed),
		"receive on a closed channel must report graceful shutdown, got %v", err)
}

func TestCloseUnblocksReceive(t *testing.T) {
	conn := openOrSkip(t)

	done := make(chan error, 1)
	go func() {
		// Events may trickle in if some other listener on the host has
		// the connector enabled; keep receiving until the close lands.
		for {
			if _, err := conn.ReceiveEvent(); err != nil {
				done <- err
				return
			}
		}
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, conn.Close())

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, ErrConnClosed), "got %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("receive did not unblock after close")
	}
}

func TestReceiveDeadline(t *testing.T) {
	conn := openOrSkip(t)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(50*time.Millisecond)))

	var err error
	for err == nil {
		_, err = conn.ReceiveEvent()
	}
	assert.False(t, errors.Is(err, ErrConnClosed),
		"a deadline expiry is a transient failure, not shutdown")
}
