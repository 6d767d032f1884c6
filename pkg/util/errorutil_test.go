package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainErrorPassesThrough(t *testing.T) {
	orig := NewConflict("already signed", map[string]any{"project_id": "p1"})
	mapped := ToDomainError(orig)
	if mapped.Code != "CONFLICT" || mapped.HTTPStatus != http.StatusConflict {
		t.Fatalf("unexpected mapping: %+v", mapped)
	}
	if mapped.Details["project_id"] != "p1" {
		t.Fatalf("details lost: %+v", mapped.Details)
	}
}

func TestToDomainErrorMapsNoRowsToNotFound(t *testing.T) {
	mapped := ToDomainError(fmt.Errorf("load project: %w", pgx.ErrNoRows))
	if mapped.Code != "NOT_FOUND" || mapped.HTTPStatus != http.StatusNotFound {
		t.Fatalf("expected NOT_FOUND, got %+v", mapped)
	}
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	mapped := ToDomainError(errors.New("boom"))
	if mapped.Code != "INTERNAL_ERROR" || mapped.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected INTERNAL_ERROR, got %+v", mapped)
	}
	if mapped.Unwrap() == nil {
		t.Fatal("expected wrapped cause")
	}
}

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{NewInvalidToken("malformed token"), "INVALID_TOKEN", http.StatusBadRequest},
		{NewValidationError("email required", nil), "VALIDATION_FAILED", http.StatusBadRequest},
		{NewUnauthorized("session required"), "UNAUTHORIZED", http.StatusUnauthorized},
		{NewForbidden("admin required"), "FORBIDDEN", http.StatusForbidden},
		{NewNotFound("project", nil), "NOT_FOUND", http.StatusNotFound},
		{NewUpstreamFailure("email provider", errors.New("timeout")), "UPSTREAM_FAILURE", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		var de *DomainError
		if !errors.As(tc.err, &de) {
			t.Fatalf("not a DomainError: %v", tc.err)
		}
		if de.Code != tc.code || de.HTTPStatus != tc.status {
			t.Fatalf("got (%s, %d), want (%s, %d)", de.Code, de.HTTPStatus, tc.code, tc.status)
		}
	}
}
