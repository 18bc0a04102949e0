package catalog

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSignStreamRequest(t *testing.T) {
	sig, err := signStreamRequest("Tsong1", "1500000000000")
	if err != nil {
		t.Fatalf("signStreamRequest returned error: %v", err)
	}

	// A SHA1 digest is 20 bytes, which is 27 characters of unpadded base64.
	if len(sig) != 27 {
		t.Errorf("expected 27 character signature, got %d (%s)", len(sig), sig)
	}
	if strings.ContainsAny(sig, "=+/") {
		t.Errorf("signature is not URL-safe unpadded base64: %s", sig)
	}

	again, err := signStreamRequest("Tsong1", "1500000000000")
	if err != nil {
		t.Fatalf("signStreamRequest returned error: %v", err)
	}
	if sig != again {
		t.Error("signature is not deterministic for the same song and salt")
	}

	other, err := signStreamRequest("Tsong1", "1500000000001")
	if err != nil {
		t.Fatalf("signStreamRequest returned error: %v", err)
	}
	if sig == other {
		t.Error("signature did not change with the salt")
	}
}

func TestStreamURL(t *testing.T) {
	var gotQuery map[string][]string
	var gotDevice string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotDevice = r.Header.Get("X-Device-ID")
		w.Header().Set("Location", "https://media.example/stream.mp3")
		w.WriteHeader(http.StatusFound)
	}))
	defer srv.Close()

	url, err := testClient(srv).StreamURL(t.Context(), "Tsong1")
	if err != nil {
		t.Fatalf("StreamURL returned error: %v", err)
	}

	if url != "https://media.example/stream.mp3" {
		t.Errorf("expected redirect location, got %s", url)
	}
	if gotDevice != "test-device" {
		t.Errorf("expected X-Device-ID header, got %q", gotDevice)
	}

	if got := gotQuery["mjck"]; len(got) != 1 || got[0] != "Tsong1" {
		t.Errorf("expected store id in mjck, got %v", got)
	}
	if _, ok := gotQuery["songid"]; ok {
		t.Error("store ids should not be sent as songid")
	}
	for _, param := range []string{"opt", "net", "pt", "slt", "sig"} {
		if got := gotQuery[param]; len(got) != 1 || got[0] == "" {
			t.Errorf("expected %s parameter, got %v", param, got)
		}
	}
}

func TestStreamURLLibraryTrack(t *testing.T) {
	var gotQuery map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Location", "https://media.example/stream.mp3")
		w.WriteHeader(http.StatusFound)
	}))
	defer srv.Close()

	if _, err := testClient(srv).StreamURL(t.Context(), "uploaded-track-id"); err != nil {
		t.Fatalf("StreamURL returned error: %v", err)
	}

	if got := gotQuery["songid"]; len(got) != 1 || got[0] != "uploaded-track-id" {
		t.Errorf("expected library id in songid, got %v", got)
	}
	if _, ok := gotQuery["mjck"]; ok {
		t.Error("library ids should not be sent as mjck")
	}
}

func TestStreamURLRejectsNonRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if _, err := testClient(srv).StreamURL(t.Context(), "Tsong1"); err == nil {
		t.Fatal("expected error when the endpoint does not redirect")
	}
}
