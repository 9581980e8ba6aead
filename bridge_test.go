package pagebind

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
)

func TestBridgeServesHostProtocol(t *testing.T) {
	c := newTestComponent(t)
	srv := httptest.NewServer(NewBridge(c))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(Request{Type: MessageToggleEditing, Enabled: true}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var resp Response
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !resp.Success {
		t.Fatalf("toggle response = %+v", resp)
	}
	if !c.IsEditing() {
		t.Error("editing not enabled through the bridge")
	}

	if err := conn.WriteJSON(Request{Type: MessageGetChanges}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !resp.Success || resp.Changes == nil {
		t.Fatalf("changes response = %+v", resp)
	}
	if resp.Changes.DataFile != "front-page" {
		t.Errorf("DataFile = %q, want front-page", resp.Changes.DataFile)
	}
}

func TestBridgeRejectsMalformedRequest(t *testing.T) {
	c := newTestComponent(t)
	srv := httptest.NewServer(NewBridge(c))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"type": "BOGUS"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var resp Response
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if resp.Success || resp.Error == "" {
		t.Errorf("malformed request accepted: %+v", resp)
	}
}
