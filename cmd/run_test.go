package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"
)

func TestRunCommand(t *testing.T) {
	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "config"), 0755); err != nil {
		t.Fatal(err)
	}
	cfg := `
node_count: 4
topology: ring
duration: 2m
log_path: ` + filepath.Join(base, "logs") + `
protocol:
  max_ttl: 3
  relay_probability: 1.0
  beacon_interval: 5s
  route_timeout: 30s
`
	if err := os.WriteFile(filepath.Join(base, "config", "mesh.yml"), []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"run", "--prefix", base, "--nodes", "3"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("run: %v", err)
	}

	report := out.String()
	if !strings.Contains(report, "TOTAL") || !strings.Contains(report, "node-2") {
		t.Errorf("Unexpected report:\n%s", report)
	}
	if strings.Contains(report, "node-3") {
		t.Errorf("Expected --nodes to override config, got:\n%s", report)
	}
	if _, err := os.Stat(filepath.Join(base, "logs", "node-0", "info.log")); err != nil {
		t.Errorf("Expected per-node log file: %v", err)
	}
}

func TestRunCommand_Interrupt(t *testing.T) {
	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "config"), 0755); err != nil {
		t.Fatal(err)
	}
	cfg := `
node_count: 12
topology: full
duration: 10000h
log_path: ` + filepath.Join(base, "logs") + `
`
	if err := os.WriteFile(filepath.Join(base, "config", "mesh.yml"), []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"run", "--prefix", base, "--nodes", "12", "--duration", "10000h", "--topology", "full"})

	done := make(chan error, 1)
	go func() { done <- rootCmd.Execute() }()

	// node logs are opened after the signal handler is installed
	logFile := filepath.Join(base, "logs", "node-0", "info.log")
	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, err := os.Stat(logFile); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("run did not start")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err := syscall.Kill(os.Getpid(), syscall.SIGINT); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Expected clean exit on SIGINT, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop within 5s of SIGINT")
	}
	if !strings.Contains(out.String(), "TOTAL") {
		t.Errorf("Expected a partial report, got:\n%s", out.String())
	}
}
