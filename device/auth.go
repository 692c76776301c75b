package device

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
)

// authScheme - One versioned login challenge/response construction. The exact
// hash input ordering is firmware-specific, so schemes are tried in order
// until one is accepted by the device.
type authScheme struct {
	Name  string
	Login func(ctx context.Context, client *Client) (bool, error)
}

var authSchemes = []authScheme{
	{Name: "v1-static", Login: loginStatic},
	{Name: "v2-challenge", Login: loginChallenge},
}

// Login - Authenticate the session against the device.
// Each scrape re-authenticates from scratch, session lifetime on the device
// is unknown and untrusted.
func (client *Client) Login(ctx context.Context) error {
	rejections := 0
	for _, scheme := range authSchemes {
		accepted, err := scheme.Login(ctx, client)
		if err != nil {
			if AuthErrorIs(err, AuthProtocolMismatch) {
				log.WithFields(log.Fields{
					"target": client.target,
					"scheme": scheme.Name,
				}).Trace("Login scheme does not match device firmware")
				continue
			}
			return err
		}
		if accepted {
			log.WithFields(log.Fields{
				"target": client.target,
				"scheme": scheme.Name,
			}).Trace("Login accepted")
			return nil
		}
		log.WithFields(log.Fields{
			"target": client.target,
			"scheme": scheme.Name,
		}).Trace("Login rejected by device")
		rejections++
	}
	// A rejection means some scheme spoke the device's protocol and the
	// device said no. Without one, no scheme matched at all.
	if rejections == 0 {
		return &AuthError{Kind: AuthProtocolMismatch, Err: fmt.Errorf("no known login scheme matches the device")}
	}
	return &AuthError{Kind: AuthInvalidCredentials}
}

// loginStatic - md5(username+password) posted as the challenge response, with
// the same hash mirrored into the "admin" cookie the way the device's login
// page script does.
func loginStatic(ctx context.Context, client *Client) (bool, error) {
	responseHash := md5Hex(client.credential.Username + client.credential.Password)
	client.http.SetCookie(&http.Cookie{Name: "admin", Value: responseHash})
	return client.postLogin(ctx, responseHash)
}

// loginChallenge - md5(password+nonce) using a nonce issued on the login page.
// Newer firmware revisions issue a per-session nonce instead of accepting the
// static hash.
func loginChallenge(ctx context.Context, client *Client) (bool, error) {
	response, err := client.http.R().SetContext(ctx).Get("/login.cgi")
	if err != nil {
		return false, &AuthError{Kind: AuthUnreachable, Err: err}
	}
	document, err := goquery.NewDocumentFromReader(strings.NewReader(string(response.Body())))
	if err != nil {
		return false, &AuthError{Kind: AuthProtocolMismatch, Err: err}
	}
	nonce := document.Find("input[name=nonce]").AttrOr("value", "")
	if nonce == "" {
		return false, &AuthError{Kind: AuthProtocolMismatch, Err: fmt.Errorf("no nonce on login page")}
	}
	return client.postLogin(ctx, md5Hex(client.credential.Password+nonce))
}

func (client *Client) postLogin(ctx context.Context, responseHash string) (bool, error) {
	response, err := client.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"username": client.credential.Username,
			"password": client.credential.Password,
			"Response": responseHash,
			"language": "EN",
		}).
		Post("/login.cgi")
	if err != nil {
		return false, &AuthError{Kind: AuthUnreachable, Err: err}
	}
	// Reachable device without a login form handler does not speak this
	// protocol at all, as opposed to rejecting the credential.
	if response.StatusCode() == http.StatusNotFound || response.StatusCode() == http.StatusMethodNotAllowed {
		return false, &AuthError{Kind: AuthProtocolMismatch, Err: fmt.Errorf("login.cgi answered %v", response.StatusCode())}
	}
	return loginAccepted(response), nil
}

// loginAccepted - The device answers 200 either way; success shows as a
// redirect away from login.cgi or a body without an error marker.
func loginAccepted(response *resty.Response) bool {
	if response.StatusCode() != 200 {
		return false
	}
	finalURL := response.RawResponse.Request.URL.String()
	if !strings.Contains(finalURL, "login.cgi") {
		return true
	}
	return !strings.Contains(strings.ToLower(string(response.Body())), "error")
}

func md5Hex(text string) string {
	digest := md5.Sum([]byte(text))
	return hex.EncodeToString(digest[:])
}
