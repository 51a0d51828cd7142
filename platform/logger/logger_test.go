package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestWithContextAddsRequestAndUser(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, UserIDKey, "user-1")
	log.WithContext(ctx).Info("hello")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if record["request_id"] != "req-1" || record["user_id"] != "user-1" {
		t.Fatalf("missing context attributes in %v", record)
	}
}

func TestCardEventOnlyCarriesLastFour(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.CardEvent("card_added", 7, "4242")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("invalid log line: %v", err)
	}
	if record["ultimos_digitos"] != "4242" {
		t.Fatalf("expected last four digits, got %v", record["ultimos_digitos"])
	}
	if _, ok := record["numero"]; ok {
		t.Fatal("card events must not carry a card number field")
	}
}
