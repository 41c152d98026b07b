package utils

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"org-directory/internal/config"
)

func TestEnsureSelfSignedCert(t *testing.T) {
	dir := t.TempDir()
	cert := filepath.Join(dir, "certs", "server.crt")
	key := filepath.Join(dir, "certs", "server.key")
	require.NoError(t, EnsureSelfSignedCert(cert, key, "directory.local"))

	_, err := tls.LoadX509KeyPair(cert, key)
	require.NoError(t, err)

	before, err := os.ReadFile(cert)
	require.NoError(t, err)
	require.NoError(t, EnsureSelfSignedCert(cert, key, "directory.local"))
	after, err := os.ReadFile(cert)
	require.NoError(t, err)
	assert.Equal(t, before, after, "existing pair is kept")
}

func TestOpenRedis_Disabled(t *testing.T) {
	assert.Nil(t, OpenRedis(config.Redis{Enabled: false, Host: "127.0.0.1", Port: "6379"}))
	rc := OpenRedis(config.Redis{Enabled: true, Host: "127.0.0.1", Port: "6379", DB: -1})
	require.NotNil(t, rc)
	assert.Equal(t, 0, rc.Options().DB)
	_ = rc.Close()
}
