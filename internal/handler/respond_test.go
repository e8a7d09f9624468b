package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcircle/fitcircle/internal/apperror"
)

func TestStatusForKind(t *testing.T) {
	tests := []struct {
		kind apperror.Kind
		want int
	}{
		{apperror.KindValidation, http.StatusBadRequest},
		{apperror.KindPermission, http.StatusForbidden},
		{apperror.KindNotFound, http.StatusNotFound},
		{apperror.KindConflict, http.StatusConflict},
		{apperror.KindStorage, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.kind))
		})
	}
}

func TestWriteErrorHidesStorageCause(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/goals/weekly", nil)

	writeError(rec, req, "goal.Weekly", apperror.Storage("goal.Weekly", errors.New("disk I/O error")))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":{"kind":"storage","message":"storage unavailable"}}`, rec.Body.String())
}

func TestWriteOutcomeMergesPayload(t *testing.T) {
	rec := httptest.NewRecorder()

	writeOutcome(rec, http.StatusOK, "membership.Join", "joined", map[string]any{"group_id": "g1"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"outcome":"joined","group_id":"g1"}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Title string `json:"title"`
	}

	t.Run("valid", func(t *testing.T) {
		var v body
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Run 5k"}`))
		require.NoError(t, decodeJSON(httptest.NewRecorder(), req, "goal.AddToWeekly", &v))
		assert.Equal(t, "Run 5k", v.Title)
	})

	t.Run("empty", func(t *testing.T) {
		var v body
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		err := decodeJSON(httptest.NewRecorder(), req, "goal.AddToWeekly", &v)
		assert.ErrorIs(t, err, apperror.ErrValidation)
		assert.Equal(t, "request body is required", apperror.MessageOf(err))
	})

	t.Run("unknown field", func(t *testing.T) {
		var v body
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"x","owner":"u2"}`))
		err := decodeJSON(httptest.NewRecorder(), req, "goal.AddToWeekly", &v)
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=5", nil)
	n, err := queryInt(req, "event.Upcoming", "limit")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	n, err = queryInt(req, "event.Upcoming", "limit")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	req = httptest.NewRequest(http.MethodGet, "/?limit=-1", nil)
	_, err = queryInt(req, "event.Upcoming", "limit")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
