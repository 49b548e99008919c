package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/api/complaint"
	"github.com/EdnondDantes/golosStroyki/internal/api/record"
	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/pkg/formatter"
	"github.com/EdnondDantes/golosStroyki/internal/pkg/validator"
	"github.com/EdnondDantes/golosStroyki/internal/usecase/moderation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testToken = "secret-token"

type fakeModeration struct {
	records    map[uuid.UUID]*entity.Record
	complaints map[uuid.UUID]*entity.Complaint
	lastFilter entity.RecordFilter
	lastFormat formatter.Format
}

func newFakeModeration() *fakeModeration {
	return &fakeModeration{
		records:    map[uuid.UUID]*entity.Record{},
		complaints: map[uuid.UUID]*entity.Complaint{},
	}
}

func (f *fakeModeration) ListRecords(_ context.Context, filter entity.RecordFilter) ([]*entity.Record, error) {
	f.lastFilter = filter
	var out []*entity.Record
	for _, r := range f.records {
		if r.Variant == filter.Variant && (filter.Status == "" || r.Status == filter.Status) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeModeration) GetRecord(_ context.Context, variant entity.FormVariant, id uuid.UUID) (*entity.Record, error) {
	r, ok := f.records[id]
	if !ok || r.Variant != variant {
		return nil, entity.ErrRecordNotFound
	}
	return r, nil
}

func (f *fakeModeration) UpdateRecordStatus(ctx context.Context, variant entity.FormVariant, id uuid.UUID, status entity.RecordStatus) (*entity.Record, error) {
	r, err := f.GetRecord(ctx, variant, id)
	if err != nil {
		return nil, err
	}
	r.Status = status
	return r, nil
}

func (f *fakeModeration) ExportRecords(_ context.Context, variant entity.FormVariant, _ entity.RecordStatus, format formatter.Format) (*moderation.Export, error) {
	f.lastFormat = format
	return &moderation.Export{
		Data:        []byte("# export"),
		ContentType: "text/markdown; charset=utf-8",
		Filename:    variant.Collection() + ".md",
	}, nil
}

func (f *fakeModeration) ListComplaints(_ context.Context, status entity.ComplaintStatus, _, _ int) ([]*entity.Complaint, error) {
	var out []*entity.Complaint
	for _, c := range f.complaints {
		if status == "" || c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeModeration) UpdateComplaintStatus(_ context.Context, id uuid.UUID, status entity.ComplaintStatus) (*entity.Complaint, error) {
	c, ok := f.complaints[id]
	if !ok {
		return nil, entity.ErrComplaintNotFound
	}
	c.Status = status
	return c, nil
}

func newTestServer(t *testing.T) (*fakeModeration, *httptest.Server) {
	t.Helper()

	fake := newFakeModeration()
	v := validator.New()
	srv := httptest.NewServer(SetupRouter(record.NewHandler(fake, v), complaint.NewHandler(fake, v), testToken, zap.NewNop()))
	t.Cleanup(srv.Close)
	return fake, srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+testToken)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func seedRecord(fake *fakeModeration, status entity.RecordStatus) *entity.Record {
	r := &entity.Record{
		ID:         uuid.New(),
		Variant:    entity.FormVariantContractor,
		TelegramID: 42,
		Fields: map[string]string{
			"city":           "Москва",
			"specialization": "Плитка",
		},
		Status:    status,
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	fake.records[r.ID] = r
	return r
}

func TestHealthIsPublic(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPIRequiresBearerToken(t *testing.T) {
	_, srv := newTestServer(t)

	for _, header := range []string{"", "Bearer wrong", "Basic " + testToken} {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/complaints", nil)
		require.NoError(t, err)
		if header != "" {
			req.Header.Set("Authorization", header)
		}

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, header)
	}
}

func TestListRecords(t *testing.T) {
	fake, srv := newTestServer(t)
	pending := seedRecord(fake, entity.RecordStatusPending)
	seedRecord(fake, entity.RecordStatusApproved)

	resp := do(t, srv, http.MethodGet, "/api/v1/records/contractor?status=pending&limit=500", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body record.ListRecordsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, pending.ID, body.Records[0].ID)
	assert.Equal(t, 200, fake.lastFilter.Limit)

	require.Len(t, body.Records[0].Fields, 2)
	assert.Equal(t, "city", body.Records[0].Fields[0].Field)
	assert.Equal(t, "specialization", body.Records[0].Fields[1].Field)
}

func TestListRecordsParsesDecimalPaging(t *testing.T) {
	fake, srv := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/api/v1/records/contractor?limit=08&offset=010", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 8, fake.lastFilter.Limit)
	assert.Equal(t, 10, fake.lastFilter.Offset)
}

func TestListRecordsRejectsBadParameters(t *testing.T) {
	_, srv := newTestServer(t)

	tests := []string{
		"/api/v1/records/plumber",
		"/api/v1/records/contractor?status=archived",
		"/api/v1/records/contractor?limit=ten",
		"/api/v1/records/contractor?offset=-1",
	}
	for _, path := range tests {
		resp := do(t, srv, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestGetRecord(t *testing.T) {
	fake, srv := newTestServer(t)
	r := seedRecord(fake, entity.RecordStatusPending)

	resp := do(t, srv, http.MethodGet, "/api/v1/records/contractor/"+r.ID.String(), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/v1/records/order/"+r.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/v1/records/contractor/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateRecordStatus(t *testing.T) {
	fake, srv := newTestServer(t)
	r := seedRecord(fake, entity.RecordStatusPending)
	path := "/api/v1/records/contractor/" + r.ID.String() + "/status"

	resp := do(t, srv, http.MethodPatch, path, `{"status":"approved"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.RecordStatusApproved, r.Status)

	resp = do(t, srv, http.MethodPatch, path, `{"status":"published"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodPatch, path, `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportRecords(t *testing.T) {
	fake, srv := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/api/v1/records/supplier/export?format=md", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	assert.Equal(t, formatter.FormatMarkdown, fake.lastFormat)

	resp = do(t, srv, http.MethodGet, "/api/v1/records/supplier/export?format=xls", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestComplaints(t *testing.T) {
	fake, srv := newTestServer(t)
	c := &entity.Complaint{ID: uuid.New(), TelegramID: 7, Message: "Не вышел на связь", Status: entity.ComplaintStatusNew}
	fake.complaints[c.ID] = c

	resp := do(t, srv, http.MethodGet, "/api/v1/complaints?status=new", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body complaint.ListComplaintsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Count)

	resp = do(t, srv, http.MethodPatch, "/api/v1/complaints/"+c.ID.String()+"/status", `{"status":"in_review"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.ComplaintStatusInReview, c.Status)

	resp = do(t, srv, http.MethodPatch, "/api/v1/complaints/"+uuid.NewString()+"/status", `{"status":"resolved"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
