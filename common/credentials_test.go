package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func withLoadedCredentials(t *testing.T, credentials map[string]Credential) {
	t.Helper()
	previous := LoadedCredentials
	LoadedCredentials = credentials
	t.Cleanup(func() {
		LoadedCredentials = previous
	})
}

func TestCredentialForTargetExplicitWins(t *testing.T) {
	withLoadedCredentials(t, map[string]Credential{
		"192.168.40.6": {Username: "fileuser", Password: "filepass"},
	})

	credential := CredentialForTarget("192.168.40.6", "cliuser", "clipass")
	require.Equal(t, Credential{Username: "cliuser", Password: "clipass"}, credential)
}

func TestCredentialForTargetFromFile(t *testing.T) {
	withLoadedCredentials(t, map[string]Credential{
		"192.168.40.6": {Username: "fileuser", Password: "filepass"},
	})

	credential := CredentialForTarget("192.168.40.6", "", "")
	require.Equal(t, Credential{Username: "fileuser", Password: "filepass"}, credential)
}

func TestCredentialForTargetDefaults(t *testing.T) {
	withLoadedCredentials(t, nil)

	credential := CredentialForTarget("192.168.40.6", "", "")
	require.Equal(t, Credential{Username: DefaultUsername, Password: DefaultPassword}, credential)
}

func TestCredentialForTargetPartialMerge(t *testing.T) {
	withLoadedCredentials(t, map[string]Credential{
		"192.168.40.6": {Username: "fileuser", Password: "filepass"},
		"192.168.40.7": {Password: "otherpass"},
	})

	// Explicit username, password from file.
	credential := CredentialForTarget("192.168.40.6", "cliuser", "")
	require.Equal(t, Credential{Username: "cliuser", Password: "filepass"}, credential)

	// File entry without a username falls through to the default username.
	credential = CredentialForTarget("192.168.40.7", "", "")
	require.Equal(t, Credential{Username: DefaultUsername, Password: "otherpass"}, credential)

	// Unknown targets skip the file tier entirely.
	credential = CredentialForTarget("192.168.40.8", "", "clipass")
	require.Equal(t, Credential{Username: DefaultUsername, Password: "clipass"}, credential)
}

func TestLoadCredentials(t *testing.T) {
	withLoadedCredentials(t, nil)
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"192.168.40.6": {"username": "fileuser", "password": "filepass"}}`), 0600))

	previousPath := Config.CredentialsPath
	Config.CredentialsPath = path
	t.Cleanup(func() {
		Config.CredentialsPath = previousPath
	})

	require.NoError(t, LoadCredentials())
	require.Equal(t, Credential{Username: "fileuser", Password: "filepass"}, LoadedCredentials["192.168.40.6"])
}

func TestLoadCredentialsNoPath(t *testing.T) {
	withLoadedCredentials(t, nil)
	previousPath := Config.CredentialsPath
	Config.CredentialsPath = ""
	t.Cleanup(func() {
		Config.CredentialsPath = previousPath
	})

	require.NoError(t, LoadCredentials())
	require.Empty(t, LoadedCredentials)
}
