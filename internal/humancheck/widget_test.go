package humancheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func siteverify(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "secret", r.PostForm.Get("secret"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestWidgetRendersOnceAndIsReused(t *testing.T) {
	w := New(Options{}, nil)
	assert.Empty(t, w.ID())

	first, err := w.Token(context.Background(), "")
	require.NoError(t, err)
	id := w.ID()
	require.NotEmpty(t, id)

	second, err := w.Token(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, id, w.ID())
}

func TestWidgetVerifiesProof(t *testing.T) {
	srv := siteverify(t, `{"success":true,"hostname":"localhost"}`)
	w := New(Options{Secret: "secret", VerifyURL: srv.URL}, nil)

	token, err := w.Token(context.Background(), "client-response")
	require.NoError(t, err)
	assert.Equal(t, "client-response", token)

	_, err = w.Token(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrProofRequired)
}

func TestWidgetRejection(t *testing.T) {
	srv := siteverify(t, `{"success":false,"error-codes":["timeout-or-duplicate"]}`)
	w := New(Options{Secret: "secret", VerifyURL: srv.URL}, nil)

	_, err := w.Token(context.Background(), "stale")
	require.ErrorIs(t, err, ErrNotHuman)
	assert.Contains(t, err.Error(), "timeout-or-duplicate")
}

func TestClosedWidgetRefusesTokens(t *testing.T) {
	w := New(Options{}, nil)
	_, err := w.Token(context.Background(), "")
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, err = w.Token(context.Background(), "")
	assert.ErrorIs(t, err, ErrWidgetClosed)
}
