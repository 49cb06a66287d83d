package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-admin/internal/auth"
	"github.com/noah-isme/class-admin/internal/dto"
	"github.com/noah-isme/class-admin/internal/middleware"
	"github.com/noah-isme/class-admin/internal/models"
	appErrors "github.com/noah-isme/class-admin/pkg/errors"
	"github.com/noah-isme/class-admin/pkg/export"
)

const testHashKey = "0123456789abcdef0123456789abcdef"

type errorEnvelope struct {
	Error   string `json:"error"`
	Details []struct {
		Path    string `json:"path"`
		Message string `json:"message"`
	} `json:"details"`
}

func newContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	c.Request = req
	c.Set(middleware.ContextAdminKey, &models.AdminUser{ID: "admin-1"})
	return c, rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

type fakeClassSrv struct {
	listFilter models.ClassFilter
	created    dto.ClassCreateRequest
	patched    dto.ClassPatchRequest
	actor      models.AdminUser
	patchedID  int64
	err        error
}

func (f *fakeClassSrv) List(_ context.Context, filter models.ClassFilter) (*models.ClassPage, error) {
	f.listFilter = filter
	return &models.ClassPage{Rows: []models.Class{}, Page: filter.Page, Limit: filter.Limit}, f.err
}

func (f *fakeClassSrv) Get(_ context.Context, id int64) (*models.Class, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Class{ID: id}, nil
}

func (f *fakeClassSrv) Create(_ context.Context, actor models.AdminUser, req dto.ClassCreateRequest) (*models.Class, error) {
	f.actor, f.created = actor, req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Class{ID: 1, Title: req.Title}, nil
}

func (f *fakeClassSrv) Update(_ context.Context, actor models.AdminUser, id int64, req dto.ClassPatchRequest) (*models.Class, error) {
	f.actor, f.patchedID, f.patched = actor, id, req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Class{ID: id}, nil
}

func (f *fakeClassSrv) Delete(_ context.Context, actor models.AdminUser, _ int64) error {
	f.actor = actor
	return f.err
}

func TestClassListParsesFilters(t *testing.T) {
	srv := &fakeClassSrv{}
	h := NewClassHandler(srv, nil)

	c, rec := newContext(http.MethodGet, "/classes?section_id=3&day=Tue&page=2&limit=500", "")
	h.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, srv.listFilter.SectionID)
	assert.Equal(t, int64(3), *srv.listFilter.SectionID)
	require.NotNil(t, srv.listFilter.Day)
	assert.Equal(t, 2, *srv.listFilter.Day)
	assert.Equal(t, 2, srv.listFilter.Page)
	assert.Equal(t, models.MaxClassLimit, srv.listFilter.Limit)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "same-origin", rec.Header().Get("Referrer-Policy"))
}

func TestClassListAllAndDefaults(t *testing.T) {
	srv := &fakeClassSrv{}
	h := NewClassHandler(srv, nil)

	c, rec := newContext(http.MethodGet, "/classes?section_id=all&day=all", "")
	h.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, srv.listFilter.SectionID)
	assert.Nil(t, srv.listFilter.Day)
	assert.Equal(t, 1, srv.listFilter.Page)
	assert.Equal(t, models.DefaultClassLimit, srv.listFilter.Limit)
}

func TestClassListRejectsBadDay(t *testing.T) {
	h := NewClassHandler(&fakeClassSrv{}, nil)

	c, rec := newContext(http.MethodGet, "/classes?day=9", "")
	h.List(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeError(t, rec)
	require.Len(t, env.Details, 1)
	assert.Equal(t, "day", env.Details[0].Path)
}

func TestClassListRejectsOversizedPage(t *testing.T) {
	srv := &fakeClassSrv{}
	h := NewClassHandler(srv, nil)

	for _, page := range []string{"184467440737095516", "99999999999999999999", "two"} {
		c, rec := newContext(http.MethodGet, "/classes?page="+page, "")
		h.List(c)

		assert.Equal(t, http.StatusBadRequest, rec.Code, page)
		env := decodeError(t, rec)
		require.Len(t, env.Details, 1)
		assert.Equal(t, "page", env.Details[0].Path)
	}
	assert.Zero(t, srv.listFilter.Page)

	c, rec := newContext(http.MethodGet, fmt.Sprintf("/classes?page=%d&limit=200", models.MaxClassPage), "")
	h.List(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.MaxClassPage, srv.listFilter.Page)
	assert.GreaterOrEqual(t, srv.listFilter.Offset(), 0)
}

func TestClassCreate(t *testing.T) {
	srv := &fakeClassSrv{}
	h := NewClassHandler(srv, nil)

	c, rec := newContext(http.MethodPost, "/classes", `{"title":"Algorithms","code":"CS1","section_id":"4","start":"08:00","end":"09:00"}`)
	h.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "admin-1", srv.actor.ID)
	assert.Equal(t, dto.FlexInt(4), srv.created.SectionID)
}

func TestClassCreateMalformedBody(t *testing.T) {
	h := NewClassHandler(&fakeClassSrv{}, nil)

	c, rec := newContext(http.MethodPost, "/classes", `{"title":`)
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeError(t, rec)
	assert.Equal(t, "Invalid input", env.Error)
	require.NotEmpty(t, env.Details)
}

func TestClassCreateConflict(t *testing.T) {
	h := NewClassHandler(&fakeClassSrv{err: appErrors.ErrConflict}, nil)

	c, rec := newContext(http.MethodPost, "/classes", `{"title":"A"}`)
	h.Create(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Already exists", decodeError(t, rec).Error)
}

func TestClassUpdate(t *testing.T) {
	srv := &fakeClassSrv{}
	h := NewClassHandler(srv, nil)

	c, rec := newContext(http.MethodPatch, "/classes/12", `{"room":null}`)
	c.Params = gin.Params{{Key: "id", Value: "12"}}
	h.Update(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(12), srv.patchedID)
	assert.True(t, srv.patched.Room.Set)
	assert.False(t, srv.patched.Room.Valid)
}

func TestClassDeleteBadID(t *testing.T) {
	h := NewClassHandler(&fakeClassSrv{}, nil)

	c, rec := newContext(http.MethodDelete, "/classes/abc", "")
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	h.Delete(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClassDeleteMissingAndServerError(t *testing.T) {
	h := NewClassHandler(&fakeClassSrv{err: appErrors.Clone(appErrors.ErrNotFound, "Class not found")}, nil)
	c, rec := newContext(http.MethodDelete, "/classes/5", "")
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	h.Delete(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	h = NewClassHandler(&fakeClassSrv{err: appErrors.Clone(appErrors.ErrUpstream, "Failed to delete class")}, nil)
	c, rec = newContext(http.MethodDelete, "/classes/5", "")
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	h.Delete(c)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to delete class", decodeError(t, rec).Error)
	require.Len(t, c.Errors, 1)
}

func TestClassDeleteOK(t *testing.T) {
	h := NewClassHandler(&fakeClassSrv{}, nil)
	c, rec := newContext(http.MethodDelete, "/classes/5", "")
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	h.Delete(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

type fakeSectionSrv struct {
	in  dto.SectionInput
	err error
}

func (f *fakeSectionSrv) List(context.Context) ([]models.Section, error) {
	return []models.Section{{ID: 1, Code: "A"}}, f.err
}

func (f *fakeSectionSrv) Create(_ context.Context, _ models.AdminUser, in dto.SectionInput) (*models.Section, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Section{ID: 2, Code: in.Code}, nil
}

func (f *fakeSectionSrv) Update(_ context.Context, _ models.AdminUser, id int64, in dto.SectionInput) (*models.Section, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Section{ID: id, Code: in.Code}, nil
}

func (f *fakeSectionSrv) Delete(context.Context, models.AdminUser, int64) error {
	return f.err
}

func TestSectionHandlers(t *testing.T) {
	srv := &fakeSectionSrv{}
	h := NewSectionHandler(srv, nil)

	c, rec := newContext(http.MethodGet, "/sections", "")
	h.List(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"code":"A","created_at":"0001-01-01T00:00:00Z","updated_at":"0001-01-01T00:00:00Z"}]`, rec.Body.String())

	c, rec = newContext(http.MethodPost, "/sections", `{"code":"B"}`)
	h.Create(c)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "B", srv.in.Code)

	c, rec = newContext(http.MethodPatch, "/sections/2", `{"code":"C"}`)
	c.Params = gin.Params{{Key: "id", Value: "2"}}
	h.Update(c)
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newContext(http.MethodDelete, "/sections/2", "")
	c.Params = gin.Params{{Key: "id", Value: "2"}}
	h.Delete(c)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

type fakeAuditSrv struct {
	filter models.AuditFilter
	format export.Format
}

func (f *fakeAuditSrv) List(_ context.Context, filter models.AuditFilter) ([]models.AuditLog, error) {
	f.filter = filter
	return nil, nil
}

func (f *fakeAuditSrv) Export(_ context.Context, filter models.AuditFilter, format export.Format) ([]byte, error) {
	f.filter, f.format = filter, format
	return []byte("id\n"), nil
}

func TestAuditList(t *testing.T) {
	srv := &fakeAuditSrv{}
	h := NewAuditHandler(srv, nil)

	c, rec := newContext(http.MethodGet, "/audit?table=all&user_id=u1&limit=9999", "")
	h.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.Equal(t, "", srv.filter.Table)
	assert.Equal(t, "u1", srv.filter.UserID)
	assert.Equal(t, models.MaxAuditLimit, srv.filter.Limit)
}

func TestAuditExport(t *testing.T) {
	srv := &fakeAuditSrv{}
	h := NewAuditHandler(srv, nil)

	c, rec := newContext(http.MethodGet, "/audit/export?format=pdf&table=classes", "")
	h.Export(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.FormatPDF, srv.format)
	assert.Equal(t, "classes", srv.filter.Table)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".pdf")

	c, rec = newContext(http.MethodGet, "/audit/export?format=xml", "")
	h.Export(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type fakeIdentifier struct {
	identity *models.Identity
	err      error
}

func (f *fakeIdentifier) Identify(context.Context, auth.Credentials) (*models.Identity, error) {
	return f.identity, f.err
}

type fakeStatusSrv struct {
	creds auth.Credentials
}

func (f *fakeStatusSrv) Snapshot(_ context.Context, creds auth.Credentials) *models.StatusSnapshot {
	f.creds = creds
	return &models.StatusSnapshot{RecentErrors: []models.RecentError{}}
}

func TestWhoAmI(t *testing.T) {
	h := NewStatusHandler(&fakeStatusSrv{}, &fakeIdentifier{err: appErrors.ErrUnauthorized}, nil, nil)
	c, rec := newContext(http.MethodGet, "/whoami", "")
	h.WhoAmI(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":null}`, rec.Body.String())

	h = NewStatusHandler(&fakeStatusSrv{}, &fakeIdentifier{identity: &models.Identity{ID: "u1", Email: "a@b.c"}}, nil, nil)
	c, rec = newContext(http.MethodGet, "/whoami", "")
	h.WhoAmI(c)
	assert.JSONEq(t, `{"user":{"id":"u1","email":"a@b.c"}}`, rec.Body.String())
}

func TestStatusPassesCredentials(t *testing.T) {
	srv := &fakeStatusSrv{}
	h := NewStatusHandler(srv, &fakeIdentifier{}, nil, nil)

	c, rec := newContext(http.MethodGet, "/status", "")
	c.Request.Header.Set("Authorization", "Bearer tok")
	h.Status(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok", srv.creds.AccessToken)
}

func TestEdgeInfo(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("X-Forwarded-For", " 203.0.113.7 , 10.0.0.1")
	hdr.Set("X-Vercel-IP-City", "Manila")
	hdr.Set("X-Vercel-IP-Country", "PH")
	hdr.Set("X-Forwarded-Proto", "https")

	info := edgeInfo(hdr)
	assert.Equal(t, "203.0.113.7", info.IP)
	assert.Equal(t, "Manila, PH", info.Location)
	assert.Equal(t, "PH", info.CountryCode)
	assert.True(t, info.Secure)

	empty := edgeInfo(http.Header{})
	assert.Equal(t, "unknown", empty.IP)
	assert.Equal(t, "Unknown", empty.Location)
	assert.False(t, empty.Secure)
}

type fakeGranter struct {
	err error
}

func (f *fakeGranter) GrantSelf(context.Context, auth.Credentials) (*models.AdminUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.AdminUser{ID: "u1"}, nil
}

func newCodec(t *testing.T) *auth.CookieCodec {
	t.Helper()
	codec, err := auth.NewCookieCodec(testHashKey, "", false)
	require.NoError(t, err)
	return codec
}

func TestCallbackSetsAndClearsCookies(t *testing.T) {
	h := NewSessionHandler(&fakeGranter{}, newCodec(t), "http://localhost:3000", nil)

	c, rec := newContext(http.MethodPost, "/auth/callback", `{"event":"SIGNED_IN","session":{"access_token":"a","refresh_token":"r"}}`)
	h.Callback(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, auth.AccessCookie, cookies[0].Name)
	assert.Equal(t, 7*24*3600, cookies[0].MaxAge)

	c, rec = newContext(http.MethodPost, "/auth/callback", `{"event":"SIGNED_OUT"}`)
	h.Callback(c)
	for _, ck := range rec.Result().Cookies() {
		assert.Empty(t, ck.Value)
		assert.True(t, ck.MaxAge < 0)
	}
}

func TestLogoutRedirects(t *testing.T) {
	h := NewSessionHandler(&fakeGranter{}, newCodec(t), "https://dash.example.com", nil)

	c, rec := newContext(http.MethodPost, "/logout", "")
	h.Logout(c)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://dash.example.com/login", rec.Header().Get("Location"))
	assert.Len(t, rec.Result().Cookies(), 2)
}

func TestGrantSelf(t *testing.T) {
	h := NewSessionHandler(&fakeGranter{}, newCodec(t), "", nil)
	c, rec := newContext(http.MethodPost, "/admins/grant-self", "")
	h.GrantSelf(c)
	assert.JSONEq(t, `{"ok":true,"bootstrap":true}`, rec.Body.String())

	h = NewSessionHandler(&fakeGranter{err: appErrors.ErrForbidden}, newCodec(t), "", nil)
	c, rec = newContext(http.MethodPost, "/admins/grant-self", "")
	h.GrantSelf(c)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

func TestReady(t *testing.T) {
	h := NewMetricsHandler(nil, fakePinger{err: assert.AnError})
	c, rec := newContext(http.MethodGet, "/ready", "")
	h.Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	h = NewMetricsHandler(nil, fakePinger{})
	c, rec = newContext(http.MethodGet, "/ready", "")
	h.Ready(c)
	assert.Equal(t, http.StatusOK, rec.Code)
}
