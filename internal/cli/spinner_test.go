package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerDrawsAndClears(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Delivering array...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Delivering array...") {
		t.Errorf("output %q does not contain the message", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("output %q does not end with a cleared line", out)
	}
	if s.Cancelled() {
		t.Error("Cancelled() = true after a plain Stop")
	}
}

func TestSpinnerSilentWithoutWriter(t *testing.T) {
	s := newSpinner(context.Background(), nil, "quiet")
	s.Start()
	s.Stop()
}

func TestSpinnerParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinner(ctx, nil, "cancel me")
	s.Start()
	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("Cancelled() = false after parent cancellation")
	}
}

func TestSpinnerTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinner(ctx, nil, "timeout")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Cancelled() = false after timeout")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), nil, "stop")
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerNilContext(t *testing.T) {
	//nolint:staticcheck // nil context is accepted
	s := newSpinner(nil, nil, "nil ctx")
	s.Start()
	s.Stop()
}
