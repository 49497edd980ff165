package mfa

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/encryptabit/ams/internal/amserr"
)

func TestProcessRunner_Success(t *testing.T) {
	corpusDir := t.TempDir()
	runner := NewProcessRunner(ProcessConfig{BinaryPath: "true"})

	if err := runner.Align(context.Background(), corpusDir, "ch01"); err != nil {
		t.Fatalf("Align() error = %v", err)
	}
}

func TestProcessRunner_FatalExit(t *testing.T) {
	corpusDir := t.TempDir()
	runner := NewProcessRunner(ProcessConfig{BinaryPath: "false"})

	err := runner.Align(context.Background(), corpusDir, "ch01")
	if err == nil {
		t.Fatal("expected error for nonzero exit")
	}
	if amserr.KindOf(err) != amserr.ExternalFatal {
		t.Errorf("expected ExternalFatal, got %v", amserr.KindOf(err))
	}
}

func TestProcessRunner_MissingBinary(t *testing.T) {
	corpusDir := t.TempDir()
	runner := NewProcessRunner(ProcessConfig{BinaryPath: "ams-mfa-does-not-exist"})

	err := runner.Align(context.Background(), corpusDir, "ch01")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if amserr.KindOf(err) != amserr.ExternalFatal {
		t.Errorf("expected ExternalFatal, got %v", amserr.KindOf(err))
	}
}

func TestTextGridPath(t *testing.T) {
	got := TextGridPath("/work/ch01", "ch01")
	want := filepath.Join("/work/ch01", "ch01.TextGrid")
	if got != want {
		t.Errorf("TextGridPath() = %q, want %q", got, want)
	}
}

func TestWorkspacePool_RentRelease(t *testing.T) {
	root := t.TempDir()
	pool, err := NewWorkspacePool(root, 2)
	if err != nil {
		t.Fatalf("NewWorkspacePool() error = %v", err)
	}
	if pool.Size() != 2 {
		t.Errorf("expected pool size 2, got %d", pool.Size())
	}

	ctx := context.Background()
	dir1, release1, err := pool.Rent(ctx)
	if err != nil {
		t.Fatalf("Rent() error = %v", err)
	}
	if _, err := os.Stat(dir1); err != nil {
		t.Fatalf("expected workspace dir to exist: %v", err)
	}

	dir2, release2, err := pool.Rent(ctx)
	if err != nil {
		t.Fatalf("Rent() error = %v", err)
	}
	if dir1 == dir2 {
		t.Error("expected two distinct workspace directories")
	}

	release1()
	release2()

	// Pool is full again now that both have been returned; a third rent with
	// a short deadline should succeed immediately since a workspace is free.
	ctx2, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, release3, err := pool.Rent(ctx2); err != nil {
		t.Fatalf("Rent() after release error = %v", err)
	} else {
		release3()
	}
}

func TestWorkspacePool_RentBlocksUntilCancelled(t *testing.T) {
	root := t.TempDir()
	pool, err := NewWorkspacePool(root, 1)
	if err != nil {
		t.Fatalf("NewWorkspacePool() error = %v", err)
	}

	_, _, err = pool.Rent(context.Background())
	if err != nil {
		t.Fatalf("first Rent() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, _, err := pool.Rent(ctx); err == nil {
		t.Fatal("expected Rent() to fail when pool is exhausted and context expires")
	}
}
