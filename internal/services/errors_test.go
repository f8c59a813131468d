package services_test

import (
	"errors"
	"testing"

	"inspira/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	inner := errors.New("boom")
	err := services.Wrap(services.ErrUpstream, "tts", "synthesize", "status 500", inner)
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatal("expected ErrUpstream tag")
	}
	if !errors.Is(err, inner) {
		t.Fatal("expected inner error to be wrapped")
	}
	want := "upstream error: tts: synthesize: status 500: boom"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestWrapNilMarkerDefaultsToUpstream(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatal("expected ErrUpstream default")
	}
	if err.Error() != "upstream error: service failure" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
