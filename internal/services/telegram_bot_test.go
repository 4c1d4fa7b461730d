package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoupi/internal/models"
)

func TestTelegramNotifierSendsToAdminChat(t *testing.T) {
	var (
		mu    sync.Mutex
		texts []string
		chats []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"bot","username":"upi_bot"}}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			_ = r.ParseForm()
			mu.Lock()
			texts = append(texts, r.Form.Get("text"))
			chats = append(chats, r.Form.Get("chat_id"))
			mu.Unlock()
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":-100,"type":"group"}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	n, err := newTelegramNotifier("token", srv.URL+"/bot%s/%s", -100, nil)
	require.NoError(t, err)

	name := "Ann <admin>"
	err = n.NotifyAccountCreated(context.Background(), &models.UserRecord{
		WalletAddress: "0xabc",
		DisplayName:   &name,
		CreatedAt:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, texts, 1)
	assert.Equal(t, []string{"-100"}, chats)
	assert.Contains(t, texts[0], "0xabc")
	assert.Contains(t, texts[0], "Ann &lt;admin&gt;")
}

func TestTelegramNotifierWithoutChatIsNoop(t *testing.T) {
	var n *TelegramNotifier
	assert.NoError(t, n.NotifyAccountCreated(context.Background(), &models.UserRecord{}))
}
