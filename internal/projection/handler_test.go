package projection

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	v1 "github.com/aevon-lab/project-tally/internal/api/v1"
	httperr "github.com/aevon-lab/project-tally/internal/core/errors"
	"github.com/aevon-lab/project-tally/internal/core/storage"
	storagemocks "github.com/aevon-lab/project-tally/internal/mocks/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, svc *Service, target string) *httptest.ResponseRecorder {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc.RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestHandleAnalytics(t *testing.T) {
	store := seededStore(t,
		v1.Record{ClientID: "A", CanonicalAmount: 5},
		v1.Record{ClientID: "B", CanonicalAmount: 20},
		v1.Record{ClientID: "A", CanonicalAmount: 15},
	)

	resp := serve(t, NewService(store), "/analytics")
	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t,
		`[{"client_id":"A","count":2,"total_amount":20},{"client_id":"B","count":1,"total_amount":20}]`,
		resp.Body.String())
}

func TestHandleAnalytics_EmptyIsArray(t *testing.T) {
	resp := serve(t, NewService(seededStore(t)), "/analytics")
	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, `[]`, resp.Body.String())
}

func TestHandleAnalytics_StoreError(t *testing.T) {
	eventStore := storagemocks.NewEventStore(t)
	eventStore.EXPECT().AggregateByClient(mock.Anything).Return(nil, errors.New("db down")).Once()

	resp := serve(t, NewService(eventStore), "/analytics")
	require.Equal(t, http.StatusInternalServerError, resp.Code)

	var errResp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errResp))
	require.Equal(t, httperr.HttpInternalError, errResp.ErrorType)
}

func TestHandleRecentEvents_StatusMapping(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		expectedStatus int
		configureStore func(eventStore *storagemocks.EventStore)
	}{
		{
			name:           "default limit",
			target:         "/events",
			expectedStatus: http.StatusOK,
			configureStore: func(eventStore *storagemocks.EventStore) {
				eventStore.EXPECT().RecentEvents(mock.Anything, storage.RecentEventsLimit).Return([]*v1.Record{}, nil).Once()
			},
		},
		{
			name:           "explicit limit",
			target:         "/events?limit=5",
			expectedStatus: http.StatusOK,
			configureStore: func(eventStore *storagemocks.EventStore) {
				eventStore.EXPECT().RecentEvents(mock.Anything, 5).Return([]*v1.Record{}, nil).Once()
			},
		},
		{
			name:           "limit above cap is capped",
			target:         "/events?limit=1000",
			expectedStatus: http.StatusOK,
			configureStore: func(eventStore *storagemocks.EventStore) {
				eventStore.EXPECT().RecentEvents(mock.Anything, storage.RecentEventsLimit).Return([]*v1.Record{}, nil).Once()
			},
		},
		{
			name:           "non-numeric limit returns 400",
			target:         "/events?limit=ten",
			expectedStatus: http.StatusBadRequest,
			configureStore: func(_ *storagemocks.EventStore) {},
		},
		{
			name:           "zero limit returns 400",
			target:         "/events?limit=0",
			expectedStatus: http.StatusBadRequest,
			configureStore: func(_ *storagemocks.EventStore) {},
		},
		{
			name:           "negative limit returns 400",
			target:         "/events?limit=-1",
			expectedStatus: http.StatusBadRequest,
			configureStore: func(_ *storagemocks.EventStore) {},
		},
		{
			name:           "store error returns 500",
			target:         "/events",
			expectedStatus: http.StatusInternalServerError,
			configureStore: func(eventStore *storagemocks.EventStore) {
				eventStore.EXPECT().RecentEvents(mock.Anything, storage.RecentEventsLimit).Return(nil, errors.New("db down")).Once()
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			eventStore := storagemocks.NewEventStore(t)
			tc.configureStore(eventStore)

			resp := serve(t, NewService(eventStore), tc.target)
			require.Equal(t, tc.expectedStatus, resp.Code)
		})
	}
}

func TestHandleRecentEvents_Body(t *testing.T) {
	store := seededStore(t,
		v1.Record{ClientID: "A", CanonicalMetric: "sale", CanonicalAmount: 5, RawPayload: `{"client":"A"}`},
		v1.Record{ClientID: "B", CanonicalMetric: "generic_event", CanonicalAmount: 20},
	)

	resp := serve(t, NewService(store), "/events")
	require.Equal(t, http.StatusOK, resp.Code)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	require.Equal(t, "B", rows[0]["client_id"])
	require.Equal(t, "A", rows[1]["client_id"])
	require.Equal(t, `{"client":"A"}`, rows[1]["raw_payload"])
	require.Equal(t, "processed", rows[1]["status"])
	for _, key := range []string{"id", "event_fingerprint", "canonical_metric", "canonical_amount", "canonical_timestamp", "created_at"} {
		require.Contains(t, rows[0], key)
	}
}

func TestHandleRecentEvents_EmptyIsArray(t *testing.T) {
	resp := serve(t, NewService(seededStore(t)), "/events")
	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, `[]`, resp.Body.String())
}
