package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDirectoryYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
users:
  - username: ana
    password: s3cret
  - username: " bob "
    password: hunter2
`), 0o600))

	dir, err := LoadDirectory(path)
	require.NoError(t, err)
	assert.Equal(t, 2, dir.Len())

	user, err := dir.Authenticate("ana", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "ana", user.Username)
	assert.Empty(t, user.Password)

	_, err = dir.Authenticate(" bob", "hunter2")
	assert.NoError(t, err)
}

func TestLoadDirectoryJSON(t *testing.T) {
	dir, err := ParseDirectory([]byte(`{"users": [{"username": "ana", "password": "pw"}]}`))
	require.NoError(t, err)

	_, err = dir.Authenticate("ana", "pw")
	assert.NoError(t, err)
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	dir, err := ParseDirectory([]byte("users:\n  - {username: ana, password: pw}\n"))
	require.NoError(t, err)

	_, wrongPassword := dir.Authenticate("ana", "nope")
	_, unknownUser := dir.Authenticate("zed", "pw")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, unknownUser)
}

func TestParseDirectoryRejectsBadFiles(t *testing.T) {
	_, err := ParseDirectory([]byte("users: []\n"))
	assert.Error(t, err)

	_, err = ParseDirectory([]byte("users:\n  - {username: '', password: pw}\n"))
	assert.Error(t, err)

	_, err = ParseDirectory([]byte("users: [\n"))
	assert.Error(t, err)

	_, err = LoadDirectory(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
