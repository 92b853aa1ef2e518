package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordChatTurn(t *testing.T) {
	before := testutil.ToFloat64(chatTurnsTotal.WithLabelValues("local", "direct", "error"))

	RecordChatTurn("local", "direct", false, 150*time.Millisecond)

	after := testutil.ToFloat64(chatTurnsTotal.WithLabelValues("local", "direct", "error"))
	assert.Equal(t, before+1, after)
}

func TestRecordCounters(t *testing.T) {
	tool := testutil.ToFloat64(toolCallsTotal.WithLabelValues("readFile", "success"))
	up := testutil.ToFloat64(uploadsTotal.WithLabelValues("error"))
	win := testutil.ToFloat64(windowOpsTotal.WithLabelValues("open", "notepad"))
	page := testutil.ToFloat64(pageFetchesTotal.WithLabelValues("http", "success"))

	RecordToolCall("readFile", true)
	RecordUpload(false)
	RecordWindowOp("open", "notepad")
	RecordPageFetch("http", true)

	assert.Equal(t, tool+1, testutil.ToFloat64(toolCallsTotal.WithLabelValues("readFile", "success")))
	assert.Equal(t, up+1, testutil.ToFloat64(uploadsTotal.WithLabelValues("error")))
	assert.Equal(t, win+1, testutil.ToFloat64(windowOpsTotal.WithLabelValues("open", "notepad")))
	assert.Equal(t, page+1, testutil.ToFloat64(pageFetchesTotal.WithLabelValues("http", "success")))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	RecordWindowOp("focus", "browser")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "athlon_window_operations_total"))
}
