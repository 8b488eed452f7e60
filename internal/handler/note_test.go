package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stickyboard/sticky-board/internal/model"
	"github.com/stickyboard/sticky-board/internal/queue"
	"github.com/stickyboard/sticky-board/internal/repository"
)

// captureQueue reroutes the handler's queue publisher into a channel.
func captureQueue(v *env) <-chan queue.NoteEvent {
	ch := make(chan queue.NoteEvent, 8)
	v.noteH.publish = func(_ context.Context, ev queue.NoteEvent) error {
		ch <- ev
		return nil
	}
	return ch
}

func recvQueueEvent(t *testing.T, ch <-chan queue.NoteEvent) queue.NoteEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for queue event")
		return queue.NoteEvent{}
	}
}

func (v *env) createNote(t *testing.T, n model.Note) *model.Note {
	t.Helper()
	require.NoError(t, v.notes.Create(context.Background(), &n))
	return &n
}

func withID(c echo.Context, id uint64) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(id))
	return c
}

func recvEvent(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case b := <-ch:
		return b
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
		return nil
	}
}

func TestCreateRequiresAuth(t *testing.T) {
	v := newEnv(t)
	c, rec := v.request(t, http.MethodPost, "/api/notes", `{"content":"hi"}`, "")
	require.NoError(t, v.noteH.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateAppliesDefaultsAndBroadcasts(t *testing.T) {
	v := newEnv(t)
	events, cancel := v.hub.Subscribe()
	defer cancel()

	c, rec := v.request(t, http.MethodPost, "/api/notes", `{"content":"buy milk"}`, "alice")
	require.NoError(t, v.noteH.Create(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "main", body["boardType"])
	assert.Equal(t, false, body["isPrivate"])
	assert.Equal(t, "active", body["status"])
	assert.Equal(t, float64(100), body["x"])
	assert.Equal(t, "#fff9c4", body["color"])
	assert.Equal(t, "alice", body["username"])

	var event map[string]any
	require.NoError(t, json.Unmarshal(recvEvent(t, events), &event))
	assert.Equal(t, "buy milk", event["content"])
}

func TestListPublicMainHidesPrivate(t *testing.T) {
	v := newEnv(t)
	pub := v.createNote(t, model.Note{Content: "public", Username: "alice"})
	v.createNote(t, model.Note{Content: "private", Username: "alice", IsPrivate: true})
	v.createNote(t, model.Note{Content: "profile", Username: "alice", BoardType: model.BoardProfile})

	c, rec := v.request(t, http.MethodGet, "/api/notes", "", "")
	require.NoError(t, v.noteH.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var notes []model.Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, pub.ID, notes[0].ID)
}

func TestListEmptyIs204(t *testing.T) {
	v := newEnv(t)
	c, rec := v.request(t, http.MethodGet, "/api/notes", "", "")
	require.NoError(t, v.noteH.List(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGetPrivateNoteForbiddenForOthers(t *testing.T) {
	v := newEnv(t)
	n := v.createNote(t, model.Note{Content: "secret", Username: "alice", IsPrivate: true})

	c, rec := v.request(t, http.MethodGet, "/api/notes/1", "", "bob")
	require.NoError(t, v.noteH.Get(withID(c, n.ID)))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = v.request(t, http.MethodGet, "/api/notes/1", "", "alice")
	require.NoError(t, v.noteH.Get(withID(c, n.ID)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteRequiresOwnership(t *testing.T) {
	v := newEnv(t)
	n := v.createNote(t, model.Note{Content: "mine", Username: "alice"})

	c, rec := v.request(t, http.MethodDelete, "/api/notes/1", "", "bob")
	require.NoError(t, v.noteH.Delete(withID(c, n.ID)))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	events, cancel := v.hub.Subscribe()
	defer cancel()

	c, rec = v.request(t, http.MethodDelete, "/api/notes/1", "", "alice")
	require.NoError(t, v.noteH.Delete(withID(c, n.ID)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, fmt.Sprintf("deleted:%d", n.ID), string(recvEvent(t, events)))

	_, err := v.notes.GetByID(context.Background(), n.ID)
	assert.ErrorIs(t, err, repository.ErrNoteNotFound)
}

func TestDislikeThresholdDeletesAndBroadcastsSentinel(t *testing.T) {
	v := newEnv(t)
	n := v.createNote(t, model.Note{Content: "controversial", Username: "alice"})
	events, cancel := v.hub.Subscribe()
	defer cancel()

	// Threshold is 3 in the test config; the first two dislikes only update.
	for i := 0; i < 2; i++ {
		c, rec := v.request(t, http.MethodPut, "/api/notes/1/dislike", "", "bob")
		require.NoError(t, v.noteH.Dislike(withID(c, n.ID)))
		require.Equal(t, http.StatusOK, rec.Code)
		var updated model.Note
		require.NoError(t, json.Unmarshal(recvEvent(t, events), &updated))
		assert.Equal(t, i+1, updated.Dislikes)
	}

	c, rec := v.request(t, http.MethodPut, "/api/notes/1/dislike", "", "bob")
	require.NoError(t, v.noteH.Dislike(withID(c, n.ID)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["deleted"])
	assert.Equal(t, fmt.Sprintf("deleted:%d", n.ID), string(recvEvent(t, events)))

	_, err := v.notes.GetByID(context.Background(), n.ID)
	assert.ErrorIs(t, err, repository.ErrNoteNotFound)
}

func TestDislikeTreatsLostDeleteRaceAsDeleted(t *testing.T) {
	v := newEnv(t)
	queued := captureQueue(v)
	events, cancel := v.hub.Subscribe()
	defer cancel()

	// A concurrent dislike already removed the row; this request still
	// reports the note deleted but must not re-broadcast the deletion.
	n := &model.Note{ID: 9999, Username: "alice", Dislikes: v.cfg.DislikeThreshold}
	c, rec := v.request(t, http.MethodPut, "/api/notes/9999/dislike", "", "bob")
	require.NoError(t, v.noteH.removeDisliked(context.Background(), c, n.ID, n))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["deleted"])

	select {
	case b := <-events:
		t.Fatalf("unexpected broadcast %q", b)
	case ev := <-queued:
		t.Fatalf("unexpected queue event %q", ev.Action)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLikeBroadcastsUpdate(t *testing.T) {
	v := newEnv(t)
	n := v.createNote(t, model.Note{Content: "nice", Username: "alice"})
	events, cancel := v.hub.Subscribe()
	defer cancel()

	c, rec := v.request(t, http.MethodPut, "/api/notes/1/like", "", "")
	require.NoError(t, v.noteH.Like(withID(c, n.ID)))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated model.Note
	require.NoError(t, json.Unmarshal(recvEvent(t, events), &updated))
	assert.Equal(t, 1, updated.Likes)
}

func TestStatusTransitionEndpoint(t *testing.T) {
	v := newEnv(t)
	n := v.createNote(t, model.Note{Content: "task", Username: "alice"})

	c, rec := v.request(t, http.MethodPut, "/api/notes/1/done", "", "alice")
	require.NoError(t, v.noteH.Done(withID(c, n.ID)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", decodeBody(t, rec)["status"])

	// done→deleted is rejected.
	c, rec = v.request(t, http.MethodPatch, "/api/notes/1/status?status=deleted", "", "alice")
	require.NoError(t, v.noteH.Status(withID(c, n.ID)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = v.request(t, http.MethodPatch, "/api/notes/1/status?status=bogus", "", "alice")
	require.NoError(t, v.noteH.Status(withID(c, n.ID)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdatePositionEndpoint(t *testing.T) {
	v := newEnv(t)
	n := v.createNote(t, model.Note{Content: "movable", Username: "alice"})

	c, rec := v.request(t, http.MethodPatch, "/api/notes/1/position?x=42&y=77", "", "alice")
	require.NoError(t, v.noteH.UpdatePosition(withID(c, n.ID)))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(42), body["x"])
	assert.Equal(t, float64(77), body["y"])
}

func TestByStatusFallsBackToLegacyTable(t *testing.T) {
	v := newEnv(t)
	_, err := v.db.Exec(
		"INSERT INTO sticky_notes (x,y,text,done,username,is_private,board_type) VALUES (0,0,'from the old days',0,'alice',0,'main')")
	require.NoError(t, err)

	c, rec := v.request(t, http.MethodGet, "/api/notes/by-status?status=active", "", "alice")
	require.NoError(t, v.noteH.ByStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var notes []model.Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "from the old days", notes[0].Content)
	assert.Equal(t, model.StatusActive, notes[0].Status)
	// Zero legacy coordinates map to the unified defaults.
	assert.Equal(t, model.DefaultX, notes[0].X)
	assert.Equal(t, model.DefaultY, notes[0].Y)
}

func TestByStatusPrefersUnifiedTable(t *testing.T) {
	v := newEnv(t)
	n := v.createNote(t, model.Note{Content: "new world", Username: "alice"})
	_, err := v.db.Exec(
		"INSERT INTO sticky_notes (x,y,text,done,username,is_private,board_type) VALUES (0,0,'old world',0,'alice',0,'main')")
	require.NoError(t, err)

	c, rec := v.request(t, http.MethodGet, "/api/notes/by-status?status=active", "", "alice")
	require.NoError(t, v.noteH.ByStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var notes []model.Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, n.ID, notes[0].ID)
}

func TestRestoreFallsBackToLegacyTable(t *testing.T) {
	v := newEnv(t)
	queued := captureQueue(v)
	_, err := v.db.Exec(
		"INSERT INTO sticky_notes (x,y,text,done,username,is_private,board_type) VALUES (10,20,'finished ages ago',1,'alice',0,'main')")
	require.NoError(t, err)

	c, rec := v.request(t, http.MethodPost, "/api/notes/1/restore", "", "alice")
	require.NoError(t, v.noteH.Restore(withID(c, 1)))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "active", body["status"])
	assert.Equal(t, "finished ages ago", body["content"])

	var done bool
	require.NoError(t, v.db.QueryRow("SELECT done FROM sticky_notes WHERE id=1").Scan(&done))
	assert.False(t, done)

	// Legacy restores feed the queue just like unified ones.
	ev := recvQueueEvent(t, queued)
	assert.Equal(t, "status_changed", ev.Action)
	assert.Equal(t, uint64(1), ev.NoteID)
	assert.Equal(t, "active", ev.Status)
}

func TestProfileNotesPrivacy(t *testing.T) {
	v := newEnv(t)
	v.createNote(t, model.Note{Content: "open", Username: "alice", BoardType: model.BoardProfile})
	v.createNote(t, model.Note{Content: "hidden", Username: "alice", BoardType: model.BoardProfile, IsPrivate: true})

	list := func(user, query string) (*httptest.ResponseRecorder, []model.Note) {
		c, rec := v.request(t, http.MethodGet, "/api/notes/profile/alice"+query, "", user)
		c.SetParamNames("username")
		c.SetParamValues("alice")
		require.NoError(t, v.noteH.ProfileNotes(c))
		var notes []model.Note
		if rec.Code == http.StatusOK {
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notes))
		}
		return rec, notes
	}

	rec, notes := list("", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, notes, 1)
	assert.Equal(t, "open", notes[0].Content)

	rec, notes = list("alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, notes, 2)

	rec, _ = list("bob", "?isPrivate=true")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, notes = list("alice", "?isPrivate=true")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, notes, 1)
	assert.Equal(t, "hidden", notes[0].Content)
}
