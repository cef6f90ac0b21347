package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/pipeline"
	"github.com/sells-group/prospect-cli/internal/translate"
	"github.com/sells-group/prospect-cli/pkg/apollo"
	"github.com/sells-group/prospect-cli/pkg/hunter"
)

// stubPrimary implements apollo.Client with function fields.
type stubPrimary struct {
	createList    func(ctx context.Context, req apollo.CreateListRequest) (*apollo.ListResponse, error)
	getListStatus func(ctx context.Context, id string) (*apollo.ListResponse, error)
	listContacts  func(ctx context.Context, id string, limit int) (*apollo.ContactsResponse, error)
}

func (s *stubPrimary) CreateList(ctx context.Context, req apollo.CreateListRequest) (*apollo.ListResponse, error) {
	return s.createList(ctx, req)
}

func (s *stubPrimary) GetListStatus(ctx context.Context, id string) (*apollo.ListResponse, error) {
	return s.getListStatus(ctx, id)
}

func (s *stubPrimary) ListContacts(ctx context.Context, id string, limit int) (*apollo.ContactsResponse, error) {
	return s.listContacts(ctx, id, limit)
}

// stubFallback implements hunter.Client with function fields.
type stubFallback struct {
	domainSearch func(ctx context.Context, req hunter.DomainSearchRequest) (*hunter.DomainSearchResponse, error)
	discover     func(ctx context.Context, req hunter.DiscoverRequest) (*hunter.DiscoverResponse, error)
}

func (s *stubFallback) DomainSearch(ctx context.Context, req hunter.DomainSearchRequest) (*hunter.DomainSearchResponse, error) {
	return s.domainSearch(ctx, req)
}

func (s *stubFallback) Discover(ctx context.Context, req hunter.DiscoverRequest) (*hunter.DiscoverResponse, error) {
	return s.discover(ctx, req)
}

func completingPrimary() *stubPrimary {
	return &stubPrimary{
		createList: func(ctx context.Context, req apollo.CreateListRequest) (*apollo.ListResponse, error) {
			return &apollo.ListResponse{ID: "list-1", Status: "queued"}, nil
		},
		getListStatus: func(ctx context.Context, id string) (*apollo.ListResponse, error) {
			return &apollo.ListResponse{ID: id, Status: "complete", Total: 1}, nil
		},
		listContacts: func(ctx context.Context, id string, limit int) (*apollo.ContactsResponse, error) {
			return &apollo.ContactsResponse{
				Contacts: []map[string]any{{"name": "Jane Doe", "email": "jane@acme.com"}},
				Total:    1,
			}, nil
		},
	}
}

func newTestRouter(primary apollo.Client, fallback hunter.Client) http.Handler {
	p := pipeline.New(primary, fallback, translate.New(nil, ""),
		apollo.PollPolicy{MaxAttempts: 2, Interval: time.Millisecond})
	return newRouter(p, nil)
}

func postLeadTable(t *testing.T, router http.Handler, payload string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/lead-table", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(completingPrimary(), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestLeadTableHappyPath(t *testing.T) {
	router := newTestRouter(completingPrimary(), nil)

	rr := postLeadTable(t, router, `{"prompt": "dentists in Ohio", "size": 5}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp model.SearchResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, model.ProviderPrimary, resp.Provider)
	require.Len(t, resp.Table.Rows, 1)
	assert.Equal(t, "Jane Doe", resp.Table.Rows[0][0])
}

func TestLeadTableListIDAsNumber(t *testing.T) {
	var polledID string
	primary := completingPrimary()
	primary.getListStatus = func(ctx context.Context, id string) (*apollo.ListResponse, error) {
		polledID = id
		return &apollo.ListResponse{ID: id, Status: "complete", Total: 1}, nil
	}
	router := newTestRouter(primary, nil)

	rr := postLeadTable(t, router, `{"listId": 123456789012345, "size": 5}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "123456789012345", polledID, "numeric list ids keep full precision")

	rr = postLeadTable(t, router, `{"listId": "abc-123", "size": 5}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "abc-123", polledID)
}

func TestLeadTableBuildingReturns202(t *testing.T) {
	primary := completingPrimary()
	primary.getListStatus = func(ctx context.Context, id string) (*apollo.ListResponse, error) {
		return &apollo.ListResponse{ID: id, Status: "processing"}, nil
	}
	router := newTestRouter(primary, nil)

	rr := postLeadTable(t, router, `{"prompt": "founders", "size": 5}`)
	assert.Equal(t, http.StatusAccepted, rr.Code)

	var resp model.SearchResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.JobMeta)
	assert.Equal(t, "list-1", resp.JobMeta.ListID)
}

func TestLeadTableBadRequests(t *testing.T) {
	router := newTestRouter(completingPrimary(), nil)

	rr := postLeadTable(t, router, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = postLeadTable(t, router, `{"listId": {"nested": true}}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = postLeadTable(t, router, `{"size": 5}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "prompt required without a list id")
}

func TestLeadTableNoProvidersIs500(t *testing.T) {
	router := newTestRouter(nil, nil)

	rr := postLeadTable(t, router, `{"prompt": "founders"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "credentials")
}

func TestCoerceListID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"absent", "", "", false},
		{"null", "null", "", false},
		{"string", `"abc"`, "abc", false},
		{"number", "42", "42", false},
		{"big number", "9007199254740993", "9007199254740993", false},
		{"object", `{"a":1}`, "", true},
		{"array", "[1]", "", true},
		{"bool", "true", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerceListID(json.RawMessage(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusForError(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusForError(&pipeline.Error{Kind: pipeline.KindBadRequest}))
	assert.Equal(t, http.StatusInternalServerError, statusForError(&pipeline.Error{Kind: pipeline.KindConfig}))
	assert.Equal(t, http.StatusInternalServerError, statusForError(&pipeline.Error{Kind: pipeline.KindJobFailed}))
	assert.Equal(t, http.StatusBadGateway, statusForError(&pipeline.Error{Kind: pipeline.KindProvider}))
}
