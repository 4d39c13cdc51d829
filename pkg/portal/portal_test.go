package portal

import (
	"encoding/base64"
	"math/rand"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCallback = "lazorkit://auth/callback/5f0e"

func TestConnectURL(t *testing.T) {
	actual := ConnectURL(DefaultURL, DefaultAppID, "lazorkit://auth?id=1")
	assert.Equal(t, "https://portal.lazor.sh?action=connect&expo=my-web-app&redirect_url=lazorkit%3A%2F%2Fauth%3Fid%3D1", actual)
}

func TestSignURL(t *testing.T) {
	actual := SignURL(DefaultURL, DefaultAppID, "lazorkit://auth", "a+b/c=")
	assert.Equal(t, "https://portal.lazor.sh?action=sign&message=a%2Bb%2Fc%3D&expo=my-web-app&redirect_url=lazorkit%3A%2F%2Fauth", actual)

	parsed, err := url.Parse(actual)
	require.NoError(t, err)
	assert.Equal(t, "a+b/c=", parsed.Query().Get("message"))
	assert.Equal(t, "lazorkit://auth", parsed.Query().Get("redirect_url"))
}

func TestParseConnectRedirect_Scenario(t *testing.T) {
	redirect := testCallback + "?success=true&credentialId=abc&publicKey=" + url.QueryEscape(base64.StdEncoding.EncodeToString(make([]byte, 33)))

	resp, err := ParseConnectRedirect(redirect)
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.CredentialID)
	assert.Equal(t, make([]byte, 33), resp.PasskeyPubkey)
	assert.Empty(t, resp.Platform)
	assert.Empty(t, resp.Expo)
}

func TestParseConnectRedirect_Invalid(t *testing.T) {
	validKey := url.QueryEscape(base64.StdEncoding.EncodeToString(make([]byte, 33)))

	for _, redirect := range []string{
		testCallback,
		testCallback + "?credentialId=abc&publicKey=" + validKey,
		testCallback + "?success=false&credentialId=abc&publicKey=" + validKey,
		testCallback + "?success=TRUE&credentialId=abc&publicKey=" + validKey,
		testCallback + "?success=true&publicKey=" + validKey,
		testCallback + "?success=true&credentialId=abc",
		testCallback + "?success=true&credentialId=abc&publicKey=%21%21%21",
		testCallback + "?success=true&credentialId=abc&publicKey=" + url.QueryEscape(base64.StdEncoding.EncodeToString(make([]byte, 32))),
		testCallback + "?success=true&credentialId=abc&publicKey=" + url.QueryEscape(base64.StdEncoding.EncodeToString(make([]byte, 65))),
		"%zz",
	} {
		resp, err := ParseConnectRedirect(redirect)
		assert.ErrorIs(t, err, ErrInvalidRedirectPayload, redirect)
		assert.Nil(t, resp)
	}
}

func TestParseSignRedirect(t *testing.T) {
	signature := make([]byte, 64)
	signature[0] = 0xfb
	message := []byte{0xff, 0xfe, 1, 2}

	resp, err := ParseSignRedirect((&SignResponse{Signature: signature, Message: message}).RedirectURL(testCallback))
	require.NoError(t, err)
	assert.Equal(t, signature, resp.Signature)
	assert.Equal(t, message, resp.Message)

	// Older portals return the signed bytes under publicKeyHash, with an
	// unescaped '+' in the base64 text
	redirect := testCallback + "?success=true&signature=" + base64.StdEncoding.EncodeToString(signature) + "&publicKeyHash=" + base64.StdEncoding.EncodeToString(message)
	resp, err = ParseSignRedirect(redirect)
	require.NoError(t, err)
	assert.Equal(t, signature, resp.Signature)
	assert.Equal(t, message, resp.Message)

	for _, redirect := range []string{
		testCallback + "?signature=AAAA&msg=AAAA",
		testCallback + "?success=true&msg=AAAA",
		testCallback + "?success=true&signature=AAAA",
		testCallback + "?success=true&signature=" + base64.StdEncoding.EncodeToString(make([]byte, 10)) + "&msg=aGVsbG8=",
		testCallback + "?success=true&signature=" + base64.StdEncoding.EncodeToString(make([]byte, 65)) + "&msg=aGVsbG8=",
	} {
		_, err := ParseSignRedirect(redirect)
		assert.ErrorIs(t, err, ErrInvalidRedirectPayload, redirect)
	}
}

func TestConnectRedirect_RoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	randomString := func(n int) string {
		const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_.~+/=&?% "
		b := make([]byte, n)
		for i := range b {
			b[i] = alphabet[r.Intn(len(alphabet))]
		}
		return string(b)
	}

	for i := 0; i < 1000; i++ {
		expected := &ConnectResponse{
			CredentialID:  randomString(1 + r.Intn(40)),
			PasskeyPubkey: make([]byte, PublicKeySize),
			Platform:      randomString(r.Intn(10)),
			Expo:          randomString(r.Intn(10)),
		}
		r.Read(expected.PasskeyPubkey)

		actual, err := ParseConnectRedirect(expected.RedirectURL(testCallback))
		require.NoError(t, err)
		assert.Equal(t, expected, actual)
	}
}
