package dto

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestFlexBoolUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{`true`, true},
		{`false`, false},
		{`"true"`, true},
		{`"TRUE"`, true},
		{`"1"`, true},
		{`"0"`, false},
		{`"false"`, false},
		{`""`, false},
	}
	for _, tt := range tests {
		var req SpotImageRequest
		if err := json.Unmarshal([]byte(`{"url":"https://img/a.png","preview":`+tt.in+`}`), &req); err != nil {
			t.Fatalf("%s: %v", tt.in, err)
		}
		if bool(req.Preview) != tt.want {
			t.Errorf("%s: got %v, want %v", tt.in, req.Preview, tt.want)
		}
	}
}

func TestFlexBoolRejectsGarbage(t *testing.T) {
	for _, in := range []string{`"maybe"`, `3`, `{}`} {
		var b FlexBool
		if err := json.Unmarshal([]byte(in), &b); !errors.Is(err, ErrNotBool) {
			t.Errorf("%s: expected ErrNotBool, got %v", in, err)
		}
	}
}

func TestNewSafeUserNil(t *testing.T) {
	if NewSafeUser(nil) != nil {
		t.Fatal("expected nil for anonymous user")
	}
	raw, err := json.Marshal(UserEnvelope{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"user":null}` {
		t.Fatalf("got %s", raw)
	}
}
