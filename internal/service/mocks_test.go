package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/noah-isme/class-admin/internal/auth"
	"github.com/noah-isme/class-admin/internal/models"
	appErrors "github.com/noah-isme/class-admin/pkg/errors"
)

type recordedAudit struct {
	UserID  string
	Table   string
	Action  models.AuditAction
	RowID   string
	Details interface{}
}

type fakeRecorder struct {
	mu      sync.Mutex
	entries []recordedAudit
}

func (f *fakeRecorder) Record(_ context.Context, userID, table string, action models.AuditAction, rowID string, details interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, recordedAudit{UserID: userID, Table: table, Action: action, RowID: rowID, Details: details})
}

func (f *fakeRecorder) RecordError(ctx context.Context, userID, table, message string, details map[string]interface{}) {
	merged := map[string]interface{}{"message": message}
	for k, v := range details {
		merged[k] = v
	}
	f.Record(ctx, userID, table, models.AuditError, "", merged)
}

type mockClassRepo struct {
	items     map[int64]*models.Class
	nextID    int64
	createErr error
	updateErr error
	lastList  models.ClassFilter
	updates   [][]models.Change
}

func newMockClassRepo() *mockClassRepo {
	return &mockClassRepo{items: map[int64]*models.Class{}, nextID: 1}
}

func (m *mockClassRepo) List(_ context.Context, filter models.ClassFilter) ([]models.Class, int, error) {
	m.lastList = filter
	out := make([]models.Class, 0, len(m.items))
	for _, c := range m.items {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *mockClassRepo) FindByID(_ context.Context, id int64) (*models.Class, error) {
	if c, ok := m.items[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockClassRepo) Create(_ context.Context, class *models.Class) error {
	if m.createErr != nil {
		return m.createErr
	}
	class.ID = m.nextID
	m.nextID++
	now := time.Now()
	class.CreatedAt, class.UpdatedAt = now, now
	cp := *class
	m.items[class.ID] = &cp
	return nil
}

func (m *mockClassRepo) Update(_ context.Context, id int64, changes []models.Change) (*models.Class, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	c, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	m.updates = append(m.updates, changes)
	for _, ch := range changes {
		switch ch.Column {
		case "title":
			c.Title = ch.Value.(string)
		case "room":
			if ch.Value == nil {
				c.Room = nil
			} else {
				v := ch.Value.(string)
				c.Room = &v
			}
		}
	}
	cp := *c
	return &cp, nil
}

func (m *mockClassRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

type mockSectionRepo struct {
	items     map[int64]*models.Section
	listCalls int
	err       error
}

func (m *mockSectionRepo) List(context.Context) ([]models.Section, error) {
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	out := []models.Section{}
	for _, s := range m.items {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockSectionRepo) Create(_ context.Context, section *models.Section) error {
	if m.err != nil {
		return m.err
	}
	if m.items == nil {
		m.items = map[int64]*models.Section{}
	}
	section.ID = int64(len(m.items) + 1)
	cp := *section
	m.items[section.ID] = &cp
	return nil
}

func (m *mockSectionRepo) UpdateCode(_ context.Context, id int64, code string) (*models.Section, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	s.Code = code
	cp := *s
	return &cp, nil
}

func (m *mockSectionRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

type mockAdminRepo struct {
	admins  map[string]bool
	err     error
	pingErr error
	granted []string
}

func (m *mockAdminRepo) IsAdmin(_ context.Context, userID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.admins[userID], nil
}

func (m *mockAdminRepo) Grant(_ context.Context, userID string) error {
	if m.err != nil {
		return m.err
	}
	m.granted = append(m.granted, userID)
	return nil
}

func (m *mockAdminRepo) Ping(context.Context) error {
	return m.pingErr
}

type fakeResolver struct {
	identities map[string]*models.Identity
}

func (f *fakeResolver) Resolve(_ context.Context, token string) (*models.Identity, error) {
	if id, ok := f.identities[token]; ok {
		return id, nil
	}
	return nil, auth.ErrInvalidSession
}

type mockAuditRepo struct {
	inserted  []models.AuditLog
	insertErr error
	list      []models.AuditLog
	listErr   error
	lastLimit int
}

func (m *mockAuditRepo) Insert(_ context.Context, entry *models.AuditLog) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, *entry)
	return nil
}

func (m *mockAuditRepo) List(_ context.Context, filter models.AuditFilter) ([]models.AuditLog, error) {
	m.lastLimit = filter.Limit
	return m.list, m.listErr
}

func (m *mockAuditRepo) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	return m.List(ctx, models.AuditFilter{Limit: limit})
}

type mockCacheRepo struct {
	store   map[string]interface{}
	deleted []string
}

func (m *mockCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	v, ok := m.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	if sections, ok := dest.(*[]models.Section); ok {
		*sections = v.([]models.Section)
	}
	return nil
}

func (m *mockCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if m.store == nil {
		m.store = map[string]interface{}{}
	}
	m.store[key] = value
	return nil
}

func (m *mockCacheRepo) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.store, k)
		m.deleted = append(m.deleted, k)
	}
	return nil
}
