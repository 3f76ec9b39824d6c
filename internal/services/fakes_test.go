package services

import (
	"context"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"family-registry/internal/authz"
	"family-registry/internal/dto"
	"family-registry/internal/entities"
	"family-registry/internal/repositories"
	"family-registry/pkg/contextkeys"
	"family-registry/pkg/filestorage"
	apperrors "family-registry/pkg/errors"
	"family-registry/pkg/types"

	"github.com/jackc/pgx/v5"
)

func ctxAs(role authz.Role, district string) context.Context {
	return context.WithValue(context.Background(), contextkeys.UserClaimsKey, &dto.UserClaims{
		UserID:    7,
		IIN:       "123456789013",
		FullName:  "Тестовый Пользователь",
		Role:      role,
		District:  district,
		TokenID:   "jti-current",
		ExpiresAt: time.Now().Add(time.Hour),
	})
}

type fakeTxManager struct{ calls int }

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	m.calls++
	return fn(nil)
}

type fakeFamilyRepo struct {
	families map[uint64]*entities.Family
	nextID   uint64
	scopes   []string
}

func newFakeFamilyRepo(families ...entities.Family) *fakeFamilyRepo {
	r := &fakeFamilyRepo{families: map[uint64]*entities.Family{}, nextID: 100}
	for i := range families {
		f := families[i]
		r.families[f.ID] = &f
	}
	return r
}

func (r *fakeFamilyRepo) List(ctx context.Context, filter types.Filter, districtScope string) ([]entities.Family, uint64, error) {
	r.scopes = append(r.scopes, districtScope)
	res := make([]entities.Family, 0)
	for _, f := range r.families {
		if districtScope == "" || f.District == districtScope {
			res = append(res, *f)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, uint64(len(res)), nil
}

func (r *fakeFamilyRepo) FindByID(ctx context.Context, id uint64) (*entities.Family, error) {
	f, ok := r.families[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFamilyRepo) CreateInTx(ctx context.Context, tx pgx.Tx, f *entities.Family) error {
	for _, existing := range r.families {
		if existing.CaseNumber == f.CaseNumber {
			return apperrors.ErrConflict
		}
	}
	r.nextID++
	f.ID = r.nextID
	cp := *f
	r.families[f.ID] = &cp
	return nil
}

func (r *fakeFamilyRepo) Update(ctx context.Context, f *entities.Family) error {
	if _, ok := r.families[f.ID]; !ok {
		return apperrors.ErrNotFound
	}
	cp := *f
	r.families[f.ID] = &cp
	return nil
}

func (r *fakeFamilyRepo) DeleteInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	if _, ok := r.families[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.families, id)
	return nil
}

type fakeMemberRepo struct {
	members map[uint64]*entities.FamilyMember
	nextID  uint64
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: map[uint64]*entities.FamilyMember{}}
}

func (r *fakeMemberRepo) ListByFamily(ctx context.Context, familyID uint64) ([]entities.FamilyMember, error) {
	res := make([]entities.FamilyMember, 0)
	for _, m := range r.members {
		if m.FamilyID == familyID {
			res = append(res, *m)
		}
	}
	return res, nil
}

func (r *fakeMemberRepo) FindByID(ctx context.Context, id uint64) (*entities.FamilyMember, error) {
	m, ok := r.members[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMemberRepo) Create(ctx context.Context, m *entities.FamilyMember) error {
	r.nextID++
	m.ID = r.nextID
	cp := *m
	r.members[m.ID] = &cp
	return nil
}

func (r *fakeMemberRepo) Update(ctx context.Context, m *entities.FamilyMember) error {
	cp := *m
	r.members[m.ID] = &cp
	return nil
}

func (r *fakeMemberRepo) Delete(ctx context.Context, id uint64) error {
	if _, ok := r.members[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.members, id)
	return nil
}

type fakeSupportRepo struct {
	measures map[uint64]*entities.SupportMeasure
	nextID   uint64
	lastList repositories.SupportFilter
	report   entities.SupportReportFilter
}

func newFakeSupportRepo() *fakeSupportRepo {
	return &fakeSupportRepo{measures: map[uint64]*entities.SupportMeasure{}}
}

func (r *fakeSupportRepo) List(ctx context.Context, filter repositories.SupportFilter) ([]entities.SupportMeasure, error) {
	r.lastList = filter
	res := make([]entities.SupportMeasure, 0)
	for _, m := range r.measures {
		if filter.FamilyID == nil || m.FamilyID == *filter.FamilyID {
			res = append(res, *m)
		}
	}
	return res, nil
}

func (r *fakeSupportRepo) FindByID(ctx context.Context, id uint64) (*entities.SupportMeasure, error) {
	m, ok := r.measures[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeSupportRepo) Create(ctx context.Context, m *entities.SupportMeasure) error {
	r.nextID++
	m.ID = r.nextID
	cp := *m
	r.measures[m.ID] = &cp
	return nil
}

func (r *fakeSupportRepo) Update(ctx context.Context, m *entities.SupportMeasure) error {
	cp := *m
	r.measures[m.ID] = &cp
	return nil
}

func (r *fakeSupportRepo) Delete(ctx context.Context, id uint64) error {
	if _, ok := r.measures[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.measures, id)
	return nil
}

func (r *fakeSupportRepo) Report(ctx context.Context, filter entities.SupportReportFilter) ([]entities.SupportReportItem, uint64, float64, error) {
	r.report = filter
	return []entities.SupportReportItem{}, 0, 0, nil
}

type fakeDocumentRepo struct {
	docs   map[uint64]*entities.Document
	nextID uint64
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: map[uint64]*entities.Document{}}
}

func (r *fakeDocumentRepo) List(ctx context.Context, familyID, memberID *uint64) ([]entities.Document, error) {
	res := make([]entities.Document, 0)
	for _, d := range r.docs {
		if familyID != nil && d.FamilyID != *familyID {
			continue
		}
		res = append(res, *d)
	}
	return res, nil
}

func (r *fakeDocumentRepo) FindByID(ctx context.Context, id uint64) (*entities.Document, error) {
	d, ok := r.docs[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDocumentRepo) Create(ctx context.Context, d *entities.Document) error {
	r.nextID++
	d.ID = r.nextID
	cp := *d
	r.docs[d.ID] = &cp
	return nil
}

func (r *fakeDocumentRepo) Delete(ctx context.Context, id uint64) error {
	if _, ok := r.docs[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

func (r *fakeDocumentRepo) CountByFamily(ctx context.Context, familyID uint64) (int64, error) {
	var n int64
	for _, d := range r.docs {
		if d.FamilyID == familyID {
			n++
		}
	}
	return n, nil
}

func (r *fakeDocumentRepo) URLsByFamilyInTx(ctx context.Context, tx pgx.Tx, familyID uint64) ([]string, error) {
	var urls []string
	for _, d := range r.docs {
		if d.FamilyID == familyID {
			urls = append(urls, d.URL)
		}
	}
	sort.Strings(urls)
	return urls, nil
}

type fakeHistoryRepo struct {
	records []entities.HistoryRecord
	nextID  uint64
	failErr error
}

func (r *fakeHistoryRepo) CreateInTx(ctx context.Context, tx pgx.Tx, record *entities.HistoryRecord) error {
	if r.failErr != nil {
		return r.failErr
	}
	r.nextID++
	record.ID = r.nextID
	record.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(r.nextID) * time.Minute)
	r.records = append(r.records, *record)
	return nil
}

func (r *fakeHistoryRepo) newestFirst(match func(entities.HistoryRecord) bool) []entities.HistoryRecord {
	res := make([]entities.HistoryRecord, 0)
	for i := len(r.records) - 1; i >= 0; i-- {
		if match(r.records[i]) {
			res = append(res, r.records[i])
		}
	}
	return res
}

func (r *fakeHistoryRepo) ListByFamily(ctx context.Context, familyID uint64, memberID *uint64) ([]entities.HistoryRecord, error) {
	return r.newestFirst(func(h entities.HistoryRecord) bool {
		if h.FamilyID != familyID {
			return false
		}
		return memberID == nil || (h.MemberID != nil && *h.MemberID == *memberID)
	}), nil
}

func (r *fakeHistoryRepo) ListAll(ctx context.Context, limit, offset int, search string) ([]entities.HistoryRecord, uint64, error) {
	search = strings.ToLower(search)
	all := r.newestFirst(func(h entities.HistoryRecord) bool {
		return search == "" || strings.Contains(strings.ToLower(h.Description), search)
	})
	total := uint64(len(all))
	if offset >= len(all) {
		return []entities.HistoryRecord{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeHistoryRepo) Delete(ctx context.Context, id uint64) error {
	for i, h := range r.records {
		if h.ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeHistoryRepo) actions() []entities.HistoryAction {
	res := make([]entities.HistoryAction, 0, len(r.records))
	for _, h := range r.records {
		res = append(res, h.Action)
	}
	return res
}

type fakeUserRepo struct {
	users     map[uint64]*entities.User
	nextID    uint64
	findCalls int
}

func newFakeUserRepo(users ...entities.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uint64]*entities.User{}, nextID: 100}
	for i := range users {
		u := users[i]
		r.users[u.ID] = &u
	}
	return r
}

func (r *fakeUserRepo) List(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	res := make([]entities.User, 0)
	for _, u := range r.users {
		res = append(res, *u)
	}
	return res, uint64(len(res)), nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uint64) (*entities.User, error) {
	r.findCalls++
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByIIN(ctx context.Context, iin string) (*entities.User, error) {
	r.findCalls++
	for _, u := range r.users {
		if u.IIN == iin {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, u *entities.User) (*entities.User, error) {
	for _, existing := range r.users {
		if existing.IIN == u.IIN {
			return nil, apperrors.ErrConflict
		}
	}
	r.nextID++
	u.ID = r.nextID
	cp := *u
	r.users[u.ID] = &cp
	return u, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *entities.User) error {
	existing, ok := r.users[u.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	cp := *u
	cp.Password = existing.Password
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.Password = hash
	return nil
}

func (r *fakeUserRepo) Deactivate(ctx context.Context, id uint64) error {
	u, ok := r.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.IsActive = false
	return nil
}

type fakeCache struct {
	mu      sync.Mutex
	data    map[string]string
	ttl     map[string]time.Duration
	failErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch v := value.(type) {
	case string:
		c.data[key] = v
	case int:
		c.data[key] = strconv.Itoa(v)
	default:
		c.data[key] = ""
	}
	c.ttl[key] = expiration
	return nil
}

func (c *fakeCache) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failErr != nil {
		return false, c.failErr
	}
	if _, ok := c.data[key]; ok {
		return false, nil
	}
	c.data[key] = "1"
	c.ttl[key] = expiration
	return true, nil
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
		delete(c.ttl, k)
	}
	return nil
}

func (c *fakeCache) Incr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := strconv.ParseInt(c.data[key], 10, 64)
	n++
	c.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (c *fakeCache) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[key]; !ok {
		return false, nil
	}
	c.ttl[key] = expiration
	return true, nil
}

func (c *fakeCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

type fakeFiles struct {
	saved   []string
	deleted []string
}

func (f *fakeFiles) Save(file io.Reader, name, prefix string) (string, error) {
	url := "/uploads/" + prefix + "/" + name
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeFiles) Delete(url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

func (f *fakeFiles) Owns(url string) bool { return strings.HasPrefix(url, "/uploads/") }

func (f *fakeFiles) Path(url string) (string, error) {
	if !f.Owns(url) || strings.Contains(url, "..") {
		return "", filestorage.ErrOutsideStorage
	}
	return "/srv" + url, nil
}
