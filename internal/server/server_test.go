package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/salesloom-cli/internal/analysis"
	"github.com/KaramelBytes/salesloom-cli/internal/dataset"
	"github.com/KaramelBytes/salesloom-cli/internal/session"
)

func salesCSV(n, badDates int) string {
	var b strings.Builder
	b.WriteString("Txn ID,Order Date,Cust,Qty,Unit Price,Total,Notes\n")
	for i := 0; i < n; i++ {
		date := fmt.Sprintf("%02d/02/2024", i%28+1)
		if i < badDates {
			date = "garbage"
		}
		fmt.Fprintf(&b, "T%03d,%s,C%d,%d,2.5,%d,\n", i, date, i%7, i%5+1, (i%5+1)*5/2)
	}
	return b.String()
}

func newTestServer(t *testing.T, maxUpload int64) (*httptest.Server, *session.Store) {
	t.Helper()
	store := session.NewStore(session.Settings{MinRows: analysis.DefaultMinRows}, nil)
	srv := New(Options{MaxUploadBytes: maxUpload, Loader: dataset.DefaultOptions()}, store, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, store
}

func upload(t *testing.T, ts *httptest.Server, name, body string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = io.WriteString(fw, body)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	resp, err := http.Post(ts.URL+"/api/sessions", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthAndRules(t *testing.T) {
	ts, _ := newTestServer(t, 0)
	resp := do(t, http.MethodGet, ts.URL+"/health", "")
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "OK", string(body))

	resp = do(t, http.MethodGet, ts.URL+"/api/rules", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rules []struct {
		Field    string   `json:"field"`
		Keywords []string `json:"keywords"`
	}
	decode(t, resp, &rules)
	require.Len(t, rules, 9)
	assert.Equal(t, "transaction_id", rules[0].Field)
	assert.Equal(t, "total_amount", rules[8].Field)
}

func TestUploadMappingProcessDownload(t *testing.T) {
	ts, store := newTestServer(t, 0)

	resp := upload(t, ts, "sales.csv", salesCSV(60, 2))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sum session.Summary
	decode(t, resp, &sum)
	assert.Equal(t, 60, sum.Rows)
	assert.Equal(t, "order_date", sum.DraftMapping["Order Date"])
	assert.Equal(t, "total_amount", sum.DraftMapping["Total"])
	assert.Equal(t, 1, store.Len())
	base := ts.URL + "/api/sessions/" + sum.ID

	resp = do(t, http.MethodGet, base+"/canonical", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// drop the order date: invalid
	resp = do(t, http.MethodPut, base+"/mapping", `{"mapping":{"Total":"total_amount","Order Date":"skip"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mr mappingResponse
	decode(t, resp, &mr)
	assert.False(t, mr.Valid)
	require.Len(t, mr.Errors, 1)
	assert.Equal(t, "You must map a column to 'order_date'.", mr.Errors[0].Message)

	resp = do(t, http.MethodPost, base+"/process", "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = do(t, http.MethodPut, base+"/mapping", `{"mapping":{"Order Date":"order_date","Total":"total_amount","Qty":"quantity"}}`)
	decode(t, resp, &mr)
	assert.True(t, mr.Valid)

	resp = do(t, http.MethodPost, base+"/process", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pr processResponse
	decode(t, resp, &pr)
	assert.Equal(t, 58, pr.Rows)
	assert.Equal(t, 2, pr.DroppedRows)
	assert.Equal(t, []string{"order_date", "quantity", "total_amount"}, pr.Columns)
	assert.Equal(t, 2, pr.CoercionFailures["order_date"])

	resp = do(t, http.MethodGet, base+"/canonical", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "sales.canonical.csv")
	body, _ := io.ReadAll(resp.Body)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	assert.Len(t, lines, 59)
	assert.Equal(t, "order_date,quantity,total_amount", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2024-02-03,"), lines[1])

	resp = do(t, http.MethodGet, base+"/canonical?format=json", "")
	var recs []map[string]any
	decode(t, resp, &recs)
	require.Len(t, recs, 58)
	assert.Equal(t, "2024-02-03", recs[0]["order_date"])

	resp = do(t, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUploadRejectsSmallDataset(t *testing.T) {
	ts, store := newTestServer(t, 0)
	resp := upload(t, ts, "sales.csv", salesCSV(49, 0))
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var er errorResponse
	decode(t, resp, &er)
	assert.Equal(t, "Dataset must have at least 50 rows.", er.Error)
	assert.Equal(t, 49, er.Rows)
	assert.Equal(t, 0, store.Len())
}

func TestUploadErrors(t *testing.T) {
	ts, _ := newTestServer(t, 1024)

	resp := upload(t, ts, "notes.pdf", "x")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = upload(t, ts, "sales.csv", salesCSV(200, 0))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	resp = do(t, http.MethodPost, ts.URL+"/api/sessions", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMappingErrors(t *testing.T) {
	ts, _ := newTestServer(t, 0)
	resp := upload(t, ts, "sales.csv", salesCSV(60, 0))
	var sum session.Summary
	decode(t, resp, &sum)
	base := ts.URL + "/api/sessions/" + sum.ID

	resp = do(t, http.MethodPut, base+"/mapping", `{"mapping":{"Total":"revenue"}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPut, base+"/mapping", `{"mapping":{"Region":"gender"}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPut, base+"/mapping", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPut, ts.URL+"/api/sessions/nope/mapping", `{"mapping":{}}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
