package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lotwatch/torgiwatch/config"
	"lotwatch/torgiwatch/helpers"
	"lotwatch/torgiwatch/internal/model"
	"lotwatch/torgiwatch/services/notifier"
	"lotwatch/torgiwatch/services/publisher"
	"lotwatch/torgiwatch/services/worker"
)

// torgiSite imitates the search API, the listing page and lot detail pages
type torgiSite struct {
	mu       sync.Mutex
	status   string
	apiDown  bool
	requests []string
}

func (s *torgiSite) setStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

func (s *torgiSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status, apiDown := s.status, s.apiDown
	s.requests = append(s.requests, r.URL.RequestURI())
	s.mu.Unlock()

	page := r.URL.Query().Get("page")

	switch {
	case r.URL.Path == "/api/search":
		if apiDown {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if page != "1" {
			fmt.Fprint(w, `{"content": []}`)
			return
		}
		fmt.Fprintf(w, `{"content": [
			{"id": "21000012340000000001", "title": "Земельный участок", "initialPrice": 1500000,
			 "status": %q, "region": "Тверская область", "url": "/lot/21000012340000000001"},
			{"id": "21000012340000000002", "title": "Гараж", "startPrice": "300 000",
			 "status": "Прием заявок", "url": "/lot/21000012340000000002"}
		]}`, status)

	case r.URL.Path == "/listing":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if page != "" {
			fmt.Fprint(w, `<html><body><p>Лотов не найдено</p></body></html>`)
			return
		}
		fmt.Fprintf(w, `<html><body><table>
			<tr><th>Лот</th><th>Регион</th><th>Цена</th><th>Статус</th><th>Срок</th></tr>
			<tr><td><a href="/lot/21000012340000000001">Земельный участок</a></td>
				<td>Тверская область</td><td>1 500 000 ₽</td><td>%s</td><td>20.05.2025</td></tr>
		</table></body></html>`, status)

	case strings.HasPrefix(r.URL.Path, "/lot/"):
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><body>
			<div class="lot-info">Организатор: Администрация Калининского района</div>
			<p class="data">Адрес: г. Тверь, ул. Советская, 5</p>
		</body></html>`)

	default:
		http.NotFound(w, r)
	}
}

// recordingNotifier captures notifications instead of sending them
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) NotifyNewLot(ctx context.Context, lot model.Lot) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, notifier.FormatNewLot(lot))
	return true
}

func (n *recordingNotifier) NotifyStatusChange(ctx context.Context, lot model.Lot, oldStatus string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, notifier.FormatStatusChange(lot, oldStatus))
	return true
}

func testConfig(t *testing.T, siteURL string) *config.Config {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "auctions.db"))
	t.Setenv("TORGI_BASE_URL", siteURL+"/listing")
	t.Setenv("TORGI_API_URL", siteURL+"/api/search")
	t.Setenv("RENDER_ENABLED", "false")
	t.Setenv("PAGE_DELAY_MS", "1")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("MEMCACHE_ADDR", "")

	cfg := config.LoadConfig()
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestIntegration(t *testing.T) {
	site := &torgiSite{status: "Прием заявок"}
	ts := httptest.NewServer(site)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	services, err := initializeServices(ctx, testConfig(t, ts.URL))
	require.NoError(t, err)
	defer services.Cleanup()

	assert.Equal(t, []string{"api", "table", "card", "inline_json"}, services.Cascade.StrategyNames())
	assert.IsType(t, publisher.NopPublisher{}, services.Publisher)

	// swap in a recorder so the test can read what would be sent
	recorder := &recordingNotifier{}
	services.Notifier = recorder
	services.Worker = worker.NewWorker(
		services.Paginator,
		services.Details,
		services.Store,
		recorder,
		services.Publisher,
		helpers.NewLogger(""),
		5,
	)

	// first check: both lots are new
	summary, err := services.Worker.Check(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.New)
	assert.Equal(t, 0, summary.Changed)
	assert.Equal(t, 2, summary.Total)

	lot, err := services.Store.Get(ctx, "21000012340000000001")
	require.NoError(t, err)
	assert.Equal(t, "Администрация Калининского района", lot.Organizer)
	assert.Equal(t, "г. Тверь, ул. Советская, 5", lot.Address)
	assert.Equal(t, 1500000.0, *lot.InitialPrice)
	assert.Equal(t, ts.URL+"/lot/21000012340000000001", lot.LotURL)

	garage, err := services.Store.Get(ctx, "21000012340000000002")
	require.NoError(t, err)
	assert.Equal(t, 300000.0, *garage.InitialPrice)

	// second check: nothing changed
	summary, err = services.Worker.Check(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.New)
	assert.Equal(t, 0, summary.Changed)

	// third check: the status moved on
	site.setStatus("Закрыт")
	summary, err = services.Worker.Check(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Changed)

	history, err := services.Store.StatusHistory(ctx, "21000012340000000001")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Прием заявок", history[0].OldStatus)
	assert.Equal(t, "Закрыт", history[0].NewStatus)

	require.Len(t, recorder.messages, 3)
	assert.Contains(t, recorder.messages[2], "Старый статус: Прием заявок")
	assert.Contains(t, recorder.messages[2], "<b>Статус:</b> Закрыт")
}

func TestIntegrationFallsBackToTable(t *testing.T) {
	site := &torgiSite{status: "Прием заявок", apiDown: true}
	ts := httptest.NewServer(site)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	services, err := initializeServices(ctx, testConfig(t, ts.URL))
	require.NoError(t, err)
	defer services.Cleanup()

	summary, err := services.Worker.Check(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.New)

	lot, err := services.Store.Get(ctx, "21000012340000000001")
	require.NoError(t, err)
	assert.Equal(t, "Земельный участок", lot.Title)
	assert.Equal(t, "Тверская область", lot.Region)
	assert.Equal(t, "20.05.2025", lot.ApplicationDeadline)

	// pagination stopped at the first empty page
	site.mu.Lock()
	defer site.mu.Unlock()
	for _, uri := range site.requests {
		assert.NotContains(t, uri, "page=3")
	}
}

func TestNewNotifierChecksTokenFormat(t *testing.T) {
	testCases := []struct {
		name  string
		token string
		want  interface{}
	}{
		{"unset", "", &notifier.LogNotifier{}},
		{"malformed", "not-a-token", &notifier.LogNotifier{}},
		{"well formed", "123456789:" + strings.Repeat("A", 35), &notifier.TelegramNotifier{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{TelegramBotToken: tc.token, TelegramChatID: 42, NotifyTimeout: time.Second}
			assert.IsType(t, tc.want, newNotifier(cfg))
		})
	}
}
