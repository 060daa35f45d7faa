package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidTopology, "unknown topology: %s", "tree")

	if err.Code != ErrCodeInvalidTopology {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidTopology)
	}

	if err.Message != "unknown topology: tree" {
		t.Errorf("Message = %v, want %v", err.Message, "unknown topology: tree")
	}

	expected := "INVALID_TOPOLOGY: unknown topology: tree"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("json: unsupported type: chan int")
	err := Wrap(ErrCodeUnencodable, cause, "encode node 3")

	if err.Code != ErrCodeUnencodable {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeUnencodable)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "UNENCODABLE_VALUE: encode node 3: json: unsupported type: chan int"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeNetwork,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeNetwork, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeNetwork,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeUnencodable, "test"), ErrCodeUnencodable},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		status int
		body   string
		code   Code
		msg    string
	}{
		{401, "", ErrCodeUnauthorized, "status 401"},
		{403, "bad key", ErrCodeForbidden, "status 403: bad key"},
		{404, "", ErrCodeNotFound, "status 404"},
		{408, "", ErrCodeTimeout, "status 408"},
		{502, "", ErrCodeNetwork, "status 502"},
		{504, "", ErrCodeTimeout, "status 504"},
		{422, "", ErrCodeDeliveryFailed, "status 422"},
	}

	for _, tt := range tests {
		err := &StatusError{Status: tt.status, Body: tt.body}
		if got := err.Code(); got != tt.code {
			t.Errorf("StatusError{%d}.Code() = %v, want %v", tt.status, got, tt.code)
		}
		if got := err.Error(); got != tt.msg {
			t.Errorf("StatusError{%d}.Error() = %q, want %q", tt.status, got, tt.msg)
		}
	}
}
