package matching

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"saubio/models"
)

func TestContextKey(t *testing.T) {
	d := models.DefaultDraft()
	d.Address.PostalCode = " 10119 "
	d.ScheduledStart = "2026-11-02T09:00"
	assert.Equal(t, "residential|10119|2026-11-02T09:00|standard", KeyForDraft(d))

	d.CleaningAddressEnabled = true
	d.CleaningAddress = models.Address{Street: "Kastanienallee", PostalCode: "10435", City: "Berlin"}
	assert.Equal(t, "residential|10435|2026-11-02T09:00|standard", KeyForDraft(d), "cleaning address wins when enabled")
}

func TestTracker_RecordAndSnapshot(t *testing.T) {
	tr := NewTracker()
	at := time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC)
	tr.Record(models.MatchingProgressEvent{ContextKey: "k", Stage: "broadcast", Status: "running", At: at})
	tr.Record(models.MatchingProgressEvent{ContextKey: "k", Stage: "broadcast", Status: "done", At: at.Add(time.Second)})
	tr.Record(models.MatchingProgressEvent{ContextKey: "k", Stage: "", Status: "ignored"})

	snap := tr.Snapshot("k")
	assert.Equal(t, map[string]string{"broadcast": "done"}, snap.Stages)
	assert.Equal(t, at.Add(time.Second), snap.UpdatedAt)

	snap.Stages["broadcast"] = "mutated"
	assert.Equal(t, "done", tr.Snapshot("k").Stages["broadcast"], "snapshots are copies")

	assert.Empty(t, tr.Snapshot("unknown").Stages)
}

func TestTracker_Subscribe(t *testing.T) {
	tr := NewTracker()
	events, cancel := tr.Subscribe("k")

	tr.Record(models.MatchingProgressEvent{ContextKey: "other", Stage: "s", Status: "x"})
	tr.Record(models.MatchingProgressEvent{ContextKey: "k", Stage: "s", Status: "y"})

	ev := <-events
	assert.Equal(t, "y", ev.Status)

	cancel()
	cancel()
	_, ok := <-events
	assert.False(t, ok)

	assert.NotPanics(t, func() {
		tr.Record(models.MatchingProgressEvent{ContextKey: "k", Stage: "s", Status: "z"})
	})
}

func TestTracker_Forget(t *testing.T) {
	tr := NewTracker()
	old := time.Now().Add(-time.Hour)
	tr.Record(models.MatchingProgressEvent{ContextKey: "old", Stage: "s", Status: "x", At: old})
	tr.Record(models.MatchingProgressEvent{ContextKey: "new", Stage: "s", Status: "x"})

	assert.Equal(t, 1, tr.Forget(time.Now().Add(-time.Minute)))
	assert.Empty(t, tr.Snapshot("old").Stages)
	assert.NotEmpty(t, tr.Snapshot("new").Stages)
}

func TestListener_FeedsTracker(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer svc", r.Header.Get("Authorization"))
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte("garbage"))
		_ = conn.WriteJSON(models.MatchingProgressEvent{ContextKey: "k", Stage: "broadcast", Status: "done"})
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	tr := NewTracker()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	l := NewListener(url, http.Header{"Authorization": {"Bearer svc"}}, tr, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return tr.Snapshot("k").Stages["broadcast"] == "done"
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop")
	}
}

func TestStream_SendsSnapshotThenEvents(t *testing.T) {
	tr := NewTracker()
	tr.Record(models.MatchingProgressEvent{ContextKey: "k", Stage: "search", Status: "done"})

	upgrader := &websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Stream(upgrader, tr, zap.NewNop(), w, r, "k")
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	var snap Progress
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, "done", snap.Stages["search"])

	tr.Record(models.MatchingProgressEvent{ContextKey: "k", Stage: "broadcast", Status: "running"})
	var ev models.MatchingProgressEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "broadcast", ev.Stage)
}
