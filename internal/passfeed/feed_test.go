package passfeed

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/nicheproof/nicheproof/internal/pass"
)

type fakeChecker struct {
	decision pass.Decision
}

func (f *fakeChecker) Check(_ context.Context, _ string) pass.Decision {
	return f.decision
}

func dialFeed(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial feed: %v", err)
	}
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	return frame
}

func TestFeedRequiresSessionID(t *testing.T) {
	h := NewHandler(&fakeChecker{}, "", true)
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/ws/pass")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 400 {
		t.Fatalf("expected status 400 without session_id, got %d", resp.StatusCode)
	}
}

func TestFeedSendsFinalFrameOnDenial(t *testing.T) {
	checker := &fakeChecker{decision: pass.Decision{Reason: pass.ReasonExpired}}
	srv := httptest.NewServer(NewHandler(checker, "", true))
	defer srv.Close()

	url := strings.Replace(srv.URL, "http://", "ws://", 1) + "/ws/pass?session_id=cs_test_abc"
	conn := dialFeed(t, url)
	defer conn.Close(websocket.StatusNormalClosure, "done")

	frame := readFrame(t, conn)
	if frame.Granted {
		t.Fatal("expected denied frame")
	}
	if frame.Reason != string(pass.ReasonExpired) {
		t.Errorf("expected reason expired, got %q", frame.Reason)
	}

	// The feed closes after the final denial frame.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, _, err := conn.Read(ctx); err == nil {
		t.Error("expected connection to close after denial")
	}
}

func TestFeedStreamsRemainingSeconds(t *testing.T) {
	checker := &fakeChecker{decision: pass.Decision{
		Granted:   true,
		ExpiresAt: time.Now().Add(time.Hour),
		Remaining: time.Hour,
	}}
	srv := httptest.NewServer(NewHandler(checker, "", true))
	defer srv.Close()

	url := strings.Replace(srv.URL, "http://", "ws://", 1) + "/ws/pass?session_id=cs_test_abc"
	conn := dialFeed(t, url)
	defer conn.Close(websocket.StatusNormalClosure, "done")

	frame := readFrame(t, conn)
	if !frame.Granted {
		t.Fatalf("expected granted frame, got %+v", frame)
	}
	if frame.SecondsRemaining != 3600 {
		t.Errorf("expected 3600 seconds remaining, got %d", frame.SecondsRemaining)
	}
}
