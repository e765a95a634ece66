package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karstlab/cavemap/internal/api"
)

func TestPush_DeliversToListeners(t *testing.T) {
	n := NewNotifier()

	var received []Toast
	n.Subscribe(func(toast Toast) {
		received = append(received, toast)
	})

	pushed := n.Push(SeverityInfo, "stations loaded")

	require.Len(t, received, 1)
	assert.Equal(t, pushed.ID, received[0].ID)
	assert.Equal(t, SeverityInfo, received[0].Severity)
	assert.Equal(t, "stations loaded", received[0].Message)
	assert.NotEmpty(t, pushed.ID)
}

func TestPushError_ServerRejectionShowsServerMessage(t *testing.T) {
	n := NewNotifier()

	toast := n.PushError(&api.APIError{Status: 400, Message: "station name taken"})
	assert.Equal(t, SeverityWarning, toast.Severity)
	assert.Equal(t, "station name taken", toast.Message)

	toast = n.PushError(&api.APIError{Status: 502, Message: "bad gateway"})
	assert.Equal(t, SeverityError, toast.Severity)
	assert.Equal(t, "bad gateway", toast.Message)
}

func TestPushError_TransportFailureShowsGenericMessage(t *testing.T) {
	n := NewNotifier()

	toast := n.PushError(errors.New("dial tcp: connection refused"))
	assert.Equal(t, SeverityError, toast.Severity)
	assert.Equal(t, "request failed, check your connection", toast.Message)
}

func TestActive_PrunesExpiredToasts(t *testing.T) {
	n := NewNotifier()
	n.duration = 10 * time.Millisecond

	n.Push(SeverityInfo, "short lived")
	require.Len(t, n.Active(), 1)

	time.Sleep(25 * time.Millisecond)
	assert.Empty(t, n.Active())
}

func TestToastIDsAreUnique(t *testing.T) {
	n := NewNotifier()
	a := n.Push(SeverityInfo, "one")
	b := n.Push(SeverityInfo, "two")
	assert.NotEqual(t, a.ID, b.ID)
}
