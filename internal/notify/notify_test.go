package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBarkNotifierPostsForm(t *testing.T) {
	var got http.Header
	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		form = map[string]string{"title": r.PostForm.Get("title"), "body": r.PostForm.Get("body"), "group": r.PostForm.Get("group")}
	}))
	defer srv.Close()

	n, err := NewBarkNotifier(srv.URL + "/device-key/")
	if err != nil {
		t.Fatalf("NewBarkNotifier: %v", err)
	}
	if err := n.Send(context.Background(), "Analysis finished", "Option_1 recommended"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got.Get("Content-Type") != "application/x-www-form-urlencoded" {
		t.Errorf("content type = %q", got.Get("Content-Type"))
	}
	if form["title"] != "Analysis finished" || form["body"] != "Option_1 recommended" || form["group"] != "robotadvisor" {
		t.Errorf("form = %v", form)
	}
}

func TestBarkNotifierErrors(t *testing.T) {
	if _, err := NewBarkNotifier("  "); err == nil {
		t.Error("expected error for empty url")
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()
	n, err := NewBarkNotifier(srv.URL)
	if err != nil {
		t.Fatalf("NewBarkNotifier: %v", err)
	}
	if err := n.Send(context.Background(), "t", "b"); err == nil {
		t.Error("expected status error")
	}
}
