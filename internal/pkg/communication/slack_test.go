package communication

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlack_PostsToConfiguredChannels(t *testing.T) {
	var (
		mu       sync.Mutex
		channels []string
		texts    []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		mu.Lock()
		channels = append(channels, r.FormValue("channel"))
		texts = append(texts, r.FormValue("text"))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"channel":"` + r.FormValue("channel") + `","ts":"1700000000.000100"}`))
	}))
	defer server.Close()

	notifier := NewSlack("xoxb-test", SlackOption{
		InfoChannelID:  "C-INFO",
		ErrorChannelID: "C-ERR",
		APIURL:         server.URL + "/",
	})

	ctx := context.Background()
	require.NoError(t, notifier.Info(ctx, "sweep done"))
	require.NoError(t, notifier.Error(ctx, "sweep failed"))

	assert.Equal(t, []string{"C-INFO", "C-ERR"}, channels)
	assert.Equal(t, []string{"sweep done", "sweep failed"}, texts)
}

func TestSlack_APIErrorIsReturned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":false,"error":"channel_not_found"}`))
	}))
	defer server.Close()

	notifier := NewSlack("xoxb-test", SlackOption{InfoChannelID: "C-MISSING", APIURL: server.URL + "/"})
	err := notifier.Info(context.Background(), "hello")
	assert.ErrorContains(t, err, "channel_not_found")
}

func TestNewNotifier_WithoutTokenIsNop(t *testing.T) {
	notifier := NewNotifier("", SlackOption{InfoChannelID: "C-INFO"})
	assert.IsType(t, Nop{}, notifier)
	assert.NoError(t, notifier.Info(context.Background(), "ignored"))
}
