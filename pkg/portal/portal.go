// Package portal implements the URL contract of the passkey signing portal:
// the request URLs that open it and the redirects it sends back.
package portal

import (
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

const (
	DefaultURL   = "https://portal.lazor.sh"
	DefaultAppID = "my-web-app"

	ActionConnect = "connect"
	ActionSign    = "sign"

	// Compressed secp256r1 public key and raw r||s signature sizes
	PublicKeySize = 33
	SignatureSize = 64
)

// ErrInvalidRedirectPayload is returned for any redirect that isn't a
// complete success response. Partial results are never returned.
var ErrInvalidRedirectPayload = errors.New("invalid redirect payload")

const (
	paramAction        = "action"
	paramMessage       = "message"
	paramExpo          = "expo"
	paramRedirectURL   = "redirect_url"
	paramSuccess       = "success"
	paramCredentialID  = "credentialId"
	paramPublicKey     = "publicKey"
	paramPlatform      = "platform"
	paramSignature     = "signature"
	paramMsg           = "msg"
	paramPublicKeyHash = "publicKeyHash"
)

// ConnectURL builds the portal URL that registers or selects a passkey.
func ConnectURL(portalURL, appID, callbackURL string) string {
	return buildURL(portalURL, [][2]string{
		{paramAction, ActionConnect},
		{paramExpo, appID},
		{paramRedirectURL, callbackURL},
	})
}

// SignURL builds the portal URL that asks the passkey to approve message.
func SignURL(portalURL, appID, callbackURL, message string) string {
	return buildURL(portalURL, [][2]string{
		{paramAction, ActionSign},
		{paramMessage, message},
		{paramExpo, appID},
		{paramRedirectURL, callbackURL},
	})
}

// Parameter order is part of the portal contract, so url.Values is avoided
// for encoding.
func buildURL(base string, params [][2]string) string {
	var sb strings.Builder
	sb.WriteString(base)

	separator := "?"
	if strings.Contains(base, "?") {
		separator = "&"
	}

	for _, param := range params {
		sb.WriteString(separator)
		sb.WriteString(param[0])
		sb.WriteString("=")
		sb.WriteString(url.QueryEscape(param[1]))
		separator = "&"
	}
	return sb.String()
}

// ConnectResponse is the portal's redirect after a successful connect.
type ConnectResponse struct {
	CredentialID  string
	PasskeyPubkey []byte
	Platform      string
	Expo          string
}

// RedirectURL encodes the response as the portal would when redirecting to
// callbackURL.
func (r *ConnectResponse) RedirectURL(callbackURL string) string {
	return buildURL(callbackURL, [][2]string{
		{paramSuccess, "true"},
		{paramCredentialID, r.CredentialID},
		{paramPublicKey, base64.StdEncoding.EncodeToString(r.PasskeyPubkey)},
		{paramPlatform, r.Platform},
		{paramExpo, r.Expo},
	})
}

// SignResponse is the portal's redirect after a successful sign.
type SignResponse struct {
	Signature []byte

	// The exact bytes the passkey signed
	Message []byte
}

func (r *SignResponse) RedirectURL(callbackURL string) string {
	return buildURL(callbackURL, [][2]string{
		{paramSuccess, "true"},
		{paramSignature, base64.StdEncoding.EncodeToString(r.Signature)},
		{paramMsg, base64.StdEncoding.EncodeToString(r.Message)},
	})
}

// ParseConnectRedirect parses the redirect for a connect request. It must
// carry success=true, a credential id and a base64 compressed public key.
func ParseConnectRedirect(redirect string) (*ConnectResponse, error) {
	query, err := successQuery(redirect)
	if err != nil {
		return nil, err
	}

	credentialID := query.Get(paramCredentialID)
	if credentialID == "" {
		return nil, errors.Wrap(ErrInvalidRedirectPayload, "missing credential id")
	}

	publicKey, err := decodeBase64(query.Get(paramPublicKey))
	if err != nil || len(publicKey) == 0 {
		return nil, errors.Wrap(ErrInvalidRedirectPayload, "missing or malformed public key")
	}
	if len(publicKey) != PublicKeySize {
		return nil, errors.Wrapf(ErrInvalidRedirectPayload, "public key is %d bytes", len(publicKey))
	}

	return &ConnectResponse{
		CredentialID:  credentialID,
		PasskeyPubkey: publicKey,
		Platform:      query.Get(paramPlatform),
		Expo:          query.Get(paramExpo),
	}, nil
}

// ParseSignRedirect parses the redirect for a sign request. The signed bytes
// are read from msg, falling back to publicKeyHash.
func ParseSignRedirect(redirect string) (*SignResponse, error) {
	query, err := successQuery(redirect)
	if err != nil {
		return nil, err
	}

	signature, err := decodeBase64(query.Get(paramSignature))
	if err != nil || len(signature) == 0 {
		return nil, errors.Wrap(ErrInvalidRedirectPayload, "missing or malformed signature")
	}
	if len(signature) != SignatureSize {
		return nil, errors.Wrapf(ErrInvalidRedirectPayload, "signature is %d bytes", len(signature))
	}

	encodedMessage := query.Get(paramMsg)
	if encodedMessage == "" {
		encodedMessage = query.Get(paramPublicKeyHash)
	}

	message, err := decodeBase64(encodedMessage)
	if err != nil || len(message) == 0 {
		return nil, errors.Wrap(ErrInvalidRedirectPayload, "missing or malformed signed message")
	}

	return &SignResponse{
		Signature: signature,
		Message:   message,
	}, nil
}

func successQuery(redirect string) (url.Values, error) {
	parsed, err := url.Parse(redirect)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidRedirectPayload, err.Error())
	}

	query := parsed.Query()
	if query.Get(paramSuccess) != "true" {
		return nil, errors.Wrap(ErrInvalidRedirectPayload, "success flag not set")
	}
	return query, nil
}

// The portal emits standard base64, but URL-safe and unpadded variants are
// accepted too. An unescaped '+' in a query string decodes to a space.
func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	value = strings.ReplaceAll(value, " ", "+")

	for _, encoding := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		decoded, err := encoding.DecodeString(value)
		if err == nil {
			return decoded, nil
		}
	}
	return nil, errors.New("invalid base64")
}
