package utils

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPhone(t *testing.T) {
	assert.Equal(t, "8a59780bb8cd2ba022bfa5ba2ea3b6e07af17a7d8b30c1f9b3390e36f69019e4", HashPhone("+15551234567"))
	assert.NotEqual(t, HashPhone("+15551234567"), HashPhone("15551234567"))
}

func TestHashCode(t *testing.T) {
	h, err := HashCode("123456")
	require.NoError(t, err)
	assert.NotContains(t, h, "123456")
	assert.True(t, CheckCode(h, "123456"))
	assert.False(t, CheckCode(h, "654321"))
	assert.False(t, CheckCode("garbage", "123456"))
}

func TestNewSigningSecret(t *testing.T) {
	a, err := NewSigningSecret(48)
	require.NoError(t, err)
	raw, err := base64.RawURLEncoding.DecodeString(a)
	require.NoError(t, err)
	assert.Len(t, raw, 48)
	assert.NotContains(t, a, "=")

	short, err := NewSigningSecret(4)
	require.NoError(t, err)
	raw, err = base64.RawURLEncoding.DecodeString(short)
	require.NoError(t, err)
	assert.Len(t, raw, MinSecretBytes)
	assert.NotEqual(t, a, short)
}

func TestSendSMS_DryRun(t *testing.T) {
	c := NewClientWithOptions("dry-run", "", false, nil)
	c.BaseURL = "http://127.0.0.1:1"
	resp, err := c.SendSMS(context.Background(), "+77001234567", "hi")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Code)
}

func TestSendSMS_Posts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "key", r.PostForm.Get("apiKey"))
		assert.Equal(t, "77001234567", r.PostForm.Get("recipient"))
		assert.Equal(t, "Your code: 123456", r.PostForm.Get("text"))
		assert.Equal(t, "CRYPTO", r.PostForm.Get("from"))
		_, _ = w.Write([]byte(`{"code":0,"message":"","data":{"messageId":"42"}}`))
	}))
	defer srv.Close()

	c := NewClientWithOptions("key", "CRYPTO", false, nil)
	c.BaseURL = srv.URL
	resp, err := c.SendSMS(context.Background(), "+77001234567", "Your code: 123456")
	require.NoError(t, err)
	assert.Equal(t, "42", resp.Data.MessageID)
}

func TestSendSMS_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":1,"message":"recipient is blocked"}`))
	}))
	defer srv.Close()

	c := NewClientWithOptions("key", "", false, nil)
	c.BaseURL = srv.URL
	_, err := c.SendSMS(context.Background(), "+77001234567", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recipient is blocked")
}
