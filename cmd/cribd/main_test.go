package main

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/RowanDark/cribdrag/internal/config"
	"github.com/RowanDark/cribdrag/internal/rpc"
)

func TestServeBootsAndShutsDown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	auditPath := filepath.Join(t.TempDir(), "audit.jsonl")
	cfg := config.Default()
	cfg.Server.AuthToken = "test-token"
	cfg.AuditLog = auditPath

	errCh := make(chan error, 1)
	go func() {
		errCh <- serve(ctx, lis, cfg)
	}()

	client, err := rpc.Dial(lis.Addr().String(), "test-token")
	if err != nil {
		t.Fatalf("failed to dial server: %v", err)
	}
	callCtx, callCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer callCancel()
	text, err := client.Decode(callCtx, "0010110000010010100100011")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if text != "HELLO" {
		t.Fatalf("expected HELLO, got %q", text)
	}
	_ = client.Close()

	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down after context cancellation")
	}

	data, err := os.ReadFile(auditPath)
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	if !strings.Contains(string(data), `"event_type":"rpc_call"`) {
		t.Fatalf("expected rpc_call audit event, got %s", data)
	}
}

func TestServeRejectsInvalidConfig(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer lis.Close()

	cfg := config.Default()
	cfg.Mode = "morse"
	if err := serve(context.Background(), lis, cfg); err == nil {
		t.Fatal("expected an invalid mode to be rejected")
	}
}
