package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ballpop/internal/balls"
	"ballpop/internal/broadcast"
	"ballpop/internal/game"
	"ballpop/internal/tone"
	"ballpop/internal/wshub"

	"github.com/coder/websocket"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHTTP(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/sessions", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created sessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	return ts, created.Code
}

func postClick(t *testing.T, ts *httptest.Server, code string, id string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/session/balls/"+id+"/click", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: code})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

type sseEvent struct {
	name string
	data string
}

func readEvent(t *testing.T, r *bufio.Reader) sseEvent {
	t.Helper()
	var ev sseEvent
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			if ev.name != "" {
				return ev
			}
		case strings.HasPrefix(line, "event: "):
			ev.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			ev.data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestEvents_StreamsStateAndTone(t *testing.T) {
	ts, code := startHTTP(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/session/events", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: code})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	r := bufio.NewReader(resp.Body)
	first := readEvent(t, r)
	require.Equal(t, broadcast.EventState, first.name)
	var view game.View
	require.NoError(t, json.Unmarshal([]byte(first.data), &view))
	assert.Len(t, view.Balls, 20)

	postClick(t, ts, code, "0")

	var sawTone bool
	for {
		ev := readEvent(t, r)
		if ev.name == broadcast.EventTone {
			var cue map[string]any
			require.NoError(t, json.Unmarshal([]byte(ev.data), &cue))
			assert.Equal(t, string(tone.Correct), cue["kind"])
			sawTone = true
			continue
		}
		require.NoError(t, json.Unmarshal([]byte(ev.data), &view))
		if view.Score == 5 {
			break
		}
	}
	assert.True(t, sawTone, "tone should arrive before the state that reflects the pop")
}

func dialWS(t *testing.T, ts *httptest.Server, code string) (*websocket.Conn, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/session/ws"
	conn, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPHeader: http.Header{"Cookie": {sessionCookie + "=" + code}},
	})
	require.NoError(t, err)
	t.Cleanup(func() { conn.CloseNow() })
	return conn, ctx
}

func readServerMessage(t *testing.T, ctx context.Context, conn *websocket.Conn) wshub.ServerMessage {
	t.Helper()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var msg wshub.ServerMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func sendClientMessage(t *testing.T, ctx context.Context, conn *websocket.Conn, msg wshub.ClientMessage) {
	t.Helper()
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, conn.Write(ctx, websocket.MessageText, data))
}

// readUntilScore reads messages until a state with the given score arrives
// and reports whether a tone came first.
func readUntilScore(t *testing.T, ctx context.Context, conn *websocket.Conn, score int) bool {
	t.Helper()
	sawTone := false
	for {
		msg := readServerMessage(t, ctx, conn)
		switch msg.Type {
		case broadcast.EventTone:
			sawTone = true
		case broadcast.EventState:
			var view game.View
			require.NoError(t, json.Unmarshal(msg.View, &view))
			if view.Score == score {
				return sawTone
			}
		}
	}
}

func TestWS_InitialStateAndClick(t *testing.T) {
	ts, code := startHTTP(t)
	conn, ctx := dialWS(t, ts, code)

	first := readServerMessage(t, ctx, conn)
	require.Equal(t, broadcast.EventState, first.Type)

	sendClientMessage(t, ctx, conn, wshub.ClientMessage{Type: wshub.TypeAudio, OK: true})
	sendClientMessage(t, ctx, conn, wshub.ClientMessage{Type: wshub.TypeClick, BallID: lo.ToPtr(0)})

	assert.True(t, readUntilScore(t, ctx, conn, 5), "audio-capable client should receive the tone")
}

func TestWS_NoToneWithoutAudio(t *testing.T) {
	ts, code := startHTTP(t)
	conn, ctx := dialWS(t, ts, code)
	readServerMessage(t, ctx, conn)

	sendClientMessage(t, ctx, conn, wshub.ClientMessage{Type: wshub.TypeClick, BallID: lo.ToPtr(0)})
	assert.False(t, readUntilScore(t, ctx, conn, 5), "client without audio should not receive tones")
}

func TestWS_Restart(t *testing.T) {
	ts, code := startHTTP(t)
	conn, ctx := dialWS(t, ts, code)
	readServerMessage(t, ctx, conn)

	sendClientMessage(t, ctx, conn, wshub.ClientMessage{Type: wshub.TypeClick, BallID: lo.ToPtr(0)})
	readUntilScore(t, ctx, conn, 5)

	sendClientMessage(t, ctx, conn, wshub.ClientMessage{Type: wshub.TypeRestart})
	readUntilScore(t, ctx, conn, 0)
}

func TestWS_ClickWithoutIDIgnored(t *testing.T) {
	ts, code := startHTTP(t)
	conn, ctx := dialWS(t, ts, code)
	readServerMessage(t, ctx, conn)

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(`{"t":"click"}`)))
	sendClientMessage(t, ctx, conn, wshub.ClientMessage{Type: wshub.TypeClick, BallID: lo.ToPtr(1)})

	for {
		msg := readServerMessage(t, ctx, conn)
		if msg.Type != broadcast.EventState {
			continue
		}
		var view game.View
		require.NoError(t, json.Unmarshal(msg.View, &view))
		if view.Score == 0 {
			continue
		}
		assert.Equal(t, 5, view.Score)
		assert.Equal(t, balls.Active, view.Balls[0].Status)
		assert.Equal(t, balls.Popping, view.Balls[1].Status)
		return
	}
}

func TestWS_ClosedWhenSessionDeleted(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	sess, err := srv.Sessions.Create()
	require.NoError(t, err)

	conn, ctx := dialWS(t, ts, sess.Code)
	readServerMessage(t, ctx, conn)

	srv.Sessions.Delete(sess.Code)
	for {
		if _, _, err = conn.Read(ctx); err != nil {
			break
		}
	}
	assert.Equal(t, websocket.StatusGoingAway, websocket.CloseStatus(err))
	assert.Equal(t, balls.Ignored, sess.Game.Click(0))
}

func TestWS_UnknownSession(t *testing.T) {
	ts, _ := startHTTP(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/session/ws"
	_, resp, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPHeader: http.Header{"Cookie": {sessionCookie + "=ZZZZZZ"}},
	})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
