package cli

import (
	"syscall"
	"testing"
	"time"
)

func TestSetupSignalHandlerCancelsOnSIGTERM(t *testing.T) {
	ctx := SetupSignalHandler()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("sending SIGTERM: %v", err)
	}

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not cancelled after SIGTERM")
	}
}
