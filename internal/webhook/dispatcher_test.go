package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestDispatcherSignsAndDelivers(t *testing.T) {
	type received struct {
		event     string
		signature string
		body      []byte
	}
	got := make(chan received, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got <- received{
			event:     r.Header.Get("X-Webhook-Event"),
			signature: r.Header.Get("X-Webhook-Signature"),
			body:      body,
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := NewDispatcher(nil)
	payload := []byte(`{"session_id":"abc","status":"completed"}`)
	d.Enqueue(DeliveryRequest{
		WebhookID: uuid.New(),
		URL:       srv.URL,
		Secret:    "whsec_test",
		Event:     "training.completed",
		Payload:   payload,
	})

	select {
	case r := <-got:
		if r.event != "training.completed" {
			t.Errorf("event header = %q", r.event)
		}
		mac := hmac.New(sha256.New, []byte("whsec_test"))
		mac.Write(payload)
		want := "sha256=" + hex.EncodeToString(mac.Sum(nil))
		if r.signature != want {
			t.Errorf("signature = %q, want %q", r.signature, want)
		}
		if string(r.body) != string(payload) {
			t.Errorf("body = %s", r.body)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("delivery never arrived")
	}
}

func TestSignIsDeterministic(t *testing.T) {
	a := sign([]byte("payload"), "secret")
	b := sign([]byte("payload"), "secret")
	if a != b {
		t.Errorf("sign not deterministic: %q vs %q", a, b)
	}
	if sign([]byte("payload"), "other") == a {
		t.Error("different secrets produced the same signature")
	}
}
