package main

import (
	"encoding/json"
	"net/http"
	"testing"

	"findmyjob-backend/internal/shared/server/respond"
)

func TestInternalErrorUsesEnvelope(t *testing.T) {
	resp := internalError("router not initialized")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	var body respond.ErrorResponse
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != respond.CodeInternal || body.Error.Message != "router not initialized" {
		t.Fatalf("unexpected body: %+v", body)
	}
}
