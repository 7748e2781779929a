//go:build integration
// +build integration

package integration

import (
	"context"
	"os/exec"
	"testing"
)

// restartServiceContainer bounces the compose service named by
// E2E_SERVICE (default foodexpress). Only meaningful with a durable backend.
func restartServiceContainer(t *testing.T, ctx context.Context) {
	t.Helper()

	svc := getenv("E2E_SERVICE", "foodexpress")
	cmd := exec.CommandContext(ctx, "docker", "compose", "restart", svc)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("docker compose restart %s failed: %v\n%s", svc, err, string(out))
	}
}
