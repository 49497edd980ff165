package mfa

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// WorkspacePool is a bounded queue of pre-created workspace directories
// (MFA_1, MFA_2, …) per spec §4.11/§6. Stage 6 rents one under the MFA
// gate and returns it under guaranteed release on every exit path; rented
// workspaces are isolated, with no shared state between concurrent runs.
type WorkspacePool struct {
	root string
	dirs chan string
}

// NewWorkspacePool creates size pre-created workspace directories under
// root and returns a pool ready to rent them.
func NewWorkspacePool(root string, size int) (*WorkspacePool, error) {
	if size < 1 {
		size = 1
	}
	dirs := make(chan string, size)
	for i := 1; i <= size; i++ {
		dir := filepath.Join(root, fmt.Sprintf("MFA_%d", i))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create MFA workspace %s: %w", dir, err)
		}
		dirs <- dir
	}
	return &WorkspacePool{root: root, dirs: dirs}, nil
}

// Rent blocks until a workspace directory is available or ctx is
// cancelled. The caller must call the returned release func exactly once
// (typically via defer) to return the workspace to the pool.
func (p *WorkspacePool) Rent(ctx context.Context) (dir string, release func(), err error) {
	select {
	case dir = <-p.dirs:
		return dir, func() { p.dirs <- dir }, nil
	case <-ctx.Done():
		return "", nil, ctx.Err()
	}
}

// Size returns the total number of workspace directories in the pool.
func (p *WorkspacePool) Size() int {
	return cap(p.dirs)
}
