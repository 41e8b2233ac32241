package notifier

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lotwatch/torgiwatch/internal/model"
)

var testToken = "123456789:" + strings.Repeat("A", 35)

// botAPI records sendMessage requests and answers with a fixed status
type botAPI struct {
	mu     sync.Mutex
	bodies []string
	paths  []string
	fail   bool
}

func (b *botAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	b.bodies = append(b.bodies, string(body))
	b.paths = append(b.paths, r.URL.Path)
	fail := b.fail
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if fail {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
		return
	}
	_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":1700000000,"chat":{"id":42,"type":"private"}}}`))
}

func newTestNotifier(t *testing.T, api *botAPI) *TelegramNotifier {
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	n, err := NewTelegramNotifier(testToken, 42, time.Second, telego.WithAPIServer(server.URL))
	require.NoError(t, err)
	return n
}

func TestValidToken(t *testing.T) {
	assert.True(t, ValidToken(testToken))
	assert.False(t, ValidToken(""))
	assert.False(t, ValidToken("not-a-token"))
	assert.False(t, ValidToken("123:short"))
}

func TestNewTelegramNotifierRejectsBadToken(t *testing.T) {
	_, err := NewTelegramNotifier("bad", 42, time.Second)
	assert.Error(t, err)
}

func TestTelegramNotifierNewLot(t *testing.T) {
	api := &botAPI{}
	n := newTestNotifier(t, api)

	ok := n.NotifyNewLot(context.Background(), model.Lot{LotNumber: "21000012340000000001", Title: "Гараж"})
	require.True(t, ok)

	require.Len(t, api.bodies, 1)
	assert.True(t, strings.HasSuffix(api.paths[0], "/sendMessage"))
	assert.Contains(t, api.bodies[0], `"chat_id":42`)
	assert.Contains(t, api.bodies[0], `"parse_mode":"HTML"`)
	assert.Contains(t, api.bodies[0], "21000012340000000001")
}

func TestTelegramNotifierStatusChangeFailure(t *testing.T) {
	api := &botAPI{fail: true}
	n := newTestNotifier(t, api)

	ok := n.NotifyStatusChange(context.Background(), model.Lot{LotNumber: "123456", Status: "Закрыт"}, "Прием заявок")
	assert.False(t, ok)
	assert.Len(t, api.bodies, 1)
}

func TestLogNotifier(t *testing.T) {
	var n Notifier = NewLogNotifier()
	assert.True(t, n.NotifyNewLot(context.Background(), model.Lot{LotNumber: "123456"}))
	assert.True(t, n.NotifyStatusChange(context.Background(), model.Lot{LotNumber: "123456"}, "old"))
}
