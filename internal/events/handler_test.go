package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/material-scheduler/pkg/logging"
)

type journalResponse struct {
	Events []Envelope `json:"events"`
	Count  int        `json:"count"`
}

func seedJournal(t *testing.T, j *RedisJournal, sessions ...string) {
	t.Helper()
	for i, sessionID := range sessions {
		env, err := Wrap(sessionID, AppointmentStatusChangedV1{
			SessionID:     sessionID,
			AppointmentID: fmt.Sprintf("AGD-%09d", i+1),
			Status:        "cancelled",
		}, time.Time{})
		require.NoError(t, err)
		require.NoError(t, j.Publish(context.Background(), env))
	}
}

func getJournal(t *testing.T, h http.Handler, query string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events"+query, nil))
	return rec
}

func TestJournalHandler(t *testing.T) {
	mr := miniredis.RunT(t)
	j := NewRedisJournal(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:events", 0)
	seedJournal(t, j, "s-1", "s-2", "s-1")
	h := JournalHandler(j, logging.New("error"))

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "all", query: "", want: 3},
		{name: "limit", query: "?limit=2", want: 2},
		{name: "session filter", query: "?session_id=s-1", want: 2},
		{name: "filter within limit", query: "?limit=1&session_id=s-2", want: 0},
		{name: "unknown session", query: "?session_id=nope", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := getJournal(t, h, tt.query)
			require.Equal(t, http.StatusOK, rec.Code)

			var resp journalResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Count)
			assert.Len(t, resp.Events, tt.want)
			assert.NotNil(t, resp.Events)
		})
	}
}

func TestJournalHandlerOrderAndType(t *testing.T) {
	mr := miniredis.RunT(t)
	j := NewRedisJournal(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:events", 0)
	seedJournal(t, j, "s-1", "s-1")

	rec := getJournal(t, JournalHandler(j, nil), "?session_id=s-1")
	var resp journalResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Events, 2)
	assert.Equal(t, TypeAppointmentCancelled, resp.Events[0].Type)

	var first AppointmentStatusChangedV1
	require.NoError(t, resp.Events[0].Decode(&first))
	assert.Equal(t, "AGD-000000001", first.AppointmentID)
}

func TestJournalHandlerErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	j := NewRedisJournal(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}), "", 0)
	h := JournalHandler(j, logging.New("error"))

	for _, q := range []string{"?limit=abc", "?limit=0", "?limit=-3"} {
		assert.Equal(t, http.StatusBadRequest, getJournal(t, h, q).Code, q)
	}

	mr.Close()
	rec := getJournal(t, h, "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"journal_unavailable"}`, rec.Body.String())
}
