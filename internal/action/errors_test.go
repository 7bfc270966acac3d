package action

import (
	"strings"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorType
	}{
		{401, ErrorTypeAuth},
		{403, ErrorTypeAuth},
		{404, ErrorTypeNotFound},
		{400, ErrorTypeValidation},
		{422, ErrorTypeValidation},
		{405, ErrorTypeConflict},
		{409, ErrorTypeConflict},
		{429, ErrorTypeRateLimit},
		{500, ErrorTypeServer},
		{502, ErrorTypeServer},
		{503, ErrorTypeServer},
		{410, ErrorTypeValidation},
	}

	for _, tt := range tests {
		if got := ClassifyStatus(tt.status); got != tt.want {
			t.Errorf("ClassifyStatus(%d) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestErrorFromStatus(t *testing.T) {
	err := ErrorFromStatus("labels.create", 422, "Validation Failed", "ABCD:1234")

	if err.Type != ErrorTypeValidation {
		t.Errorf("Type = %s, want %s", err.Type, ErrorTypeValidation)
	}
	if err.Action != "labels.create" {
		t.Errorf("Action = %q, want %q", err.Action, "labels.create")
	}
	if err.StatusCode != 422 {
		t.Errorf("StatusCode = %d, want 422", err.StatusCode)
	}
	if err.Message != "Validation Failed" {
		t.Errorf("Message = %q, want GitHub's message preserved", err.Message)
	}
	if err.SuggestText == "" {
		t.Error("SuggestText is empty, want guidance")
	}
}

func TestErrorFromStatus_MessageFallback(t *testing.T) {
	// When GitHub's response had no message field, fall back to the
	// standard status text.
	err := ErrorFromStatus("issues.get", 404, "", "")

	if err.Message != "404 Not Found" {
		t.Errorf("Message = %q, want status text fallback", err.Message)
	}
}

func TestError_Error(t *testing.T) {
	err := &Error{
		Type:       ErrorTypeAuth,
		Action:     "repos.get",
		StatusCode: 401,
		Message:    "Bad credentials",
		RequestID:  "ABCD:1234",
	}

	got := err.Error()
	for _, fragment := range []string{"Bad credentials", "auth_error", "HTTP 401", "ABCD:1234"} {
		if !strings.Contains(got, fragment) {
			t.Errorf("Error() = %q, missing %q", got, fragment)
		}
	}
}

func TestError_UserVisible(t *testing.T) {
	err := ErrorFromStatus("pulls.merge", 409, "Head branch was modified", "")

	if !err.IsUserVisible() {
		t.Error("IsUserVisible() = false, want true")
	}
	if err.UserMessage() != "Head branch was modified" {
		t.Errorf("UserMessage() = %q", err.UserMessage())
	}
	if err.Suggestion() == "" {
		t.Error("Suggestion() is empty, want conflict guidance")
	}
	if !err.IsStatusCode(409) {
		t.Error("IsStatusCode(409) = false, want true")
	}
}
