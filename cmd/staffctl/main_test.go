package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffline/backend/config"
	"staffline/backend/pkg/jwt"
)

func TestTokenCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
auth:
  jwt_secret: "staffctl-test-secret-01"
log:
  level: "error"
`), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"token", "user-a", "--config", path, "--ttl", "5m"})
	require.NoError(t, rootCmd.Execute())

	cfg, err := config.Load(path)
	require.NoError(t, err)
	claims, err := jwt.NewManager(&cfg.Auth).ParseToken(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "user-a", claims.UserID)
	assert.True(t, claims.IsAccess())
}

func TestMigrateDown_RejectsNonPositiveSteps(t *testing.T) {
	rootCmd.SetArgs([]string{"migrate", "down", "--steps", "0"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--steps")
}
