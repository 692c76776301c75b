package common

import (
	log "github.com/sirupsen/logrus"

	"github.com/YurkoWasHere/sodola-exporter/util"
)

// Default credentials shipped with Sodola firmware.
const (
	DefaultUsername = "admin"
	DefaultPassword = "admin"
)

// Credential - Login credential for a device web session.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoadedCredentials - Optional per-target credentials, keyed by target address.
// Lets service mode keep passwords off query strings.
var LoadedCredentials map[string]Credential

// LoadCredentials - Load the per-target credentials file from config.
// No-op if no path is configured.
func LoadCredentials() error {
	if Config.CredentialsPath == "" {
		return nil
	}

	log.WithFields(log.Fields{
		"credentials_path": Config.CredentialsPath,
	}).Trace("Loading credentials")
	if err := util.ParseJSONFile(&LoadedCredentials, Config.CredentialsPath); err != nil {
		return err
	}

	for target, credential := range LoadedCredentials {
		if target == "" || credential.Username == "" {
			log.WithFields(log.Fields{
				"target": target,
			}).Warn("Credential with missing fields, default username will be used")
		}
	}

	log.WithFields(log.Fields{
		"credential_count": len(LoadedCredentials),
	}).Info("Loaded credentials")

	return nil
}

// CredentialForTarget - Resolve the credential for a target.
// Explicit values win, then the credentials file, then firmware defaults.
func CredentialForTarget(target string, username string, password string) Credential {
	credential := Credential{Username: username, Password: password}
	if loaded, found := LoadedCredentials[target]; found {
		if credential.Username == "" {
			credential.Username = loaded.Username
		}
		if credential.Password == "" {
			credential.Password = loaded.Password
		}
	}
	if credential.Username == "" {
		credential.Username = DefaultUsername
	}
	if credential.Password == "" {
		credential.Password = DefaultPassword
	}
	return credential
}
