package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestDecodeWrongTypeUsesFieldMessage(t *testing.T) {
	var s sample
	err := json.Unmarshal([]byte(`{"name":"ok","score":"5"}`), &s)
	if err == nil {
		t.Fatal("expected a decode error")
	}

	fields := fieldsOf(t, Decode(err, &s))
	if fields["score"] != "Score must be from 1 to 5" {
		t.Fatalf("expected custom score message, got %v", fields)
	}
}

func TestDecodeWrongTypeFallback(t *testing.T) {
	var s sample
	err := json.Unmarshal([]byte(`{"name":12}`), &s)

	fields := fieldsOf(t, Decode(err, &s))
	if fields["name"] != "name is invalid" {
		t.Fatalf("unexpected name message: %v", fields)
	}
}

func TestDecodeMalformedBody(t *testing.T) {
	var s sample
	err := json.Unmarshal([]byte(`{"name":`), &s)

	var fe *fiber.Error
	if !errors.As(Decode(err, &s), &fe) || fe.Code != fiber.StatusBadRequest {
		t.Fatalf("expected plain 400, got %v", Decode(err, &s))
	}
}
