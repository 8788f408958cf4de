package api

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aouyang1/signage/api/models"
	"github.com/aouyang1/signage/assets"
	"github.com/aouyang1/signage/store"
)

type fakeAssets struct {
	mu      sync.Mutex
	files   map[string][]assets.Asset
	deleted []string
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{files: make(map[string][]assets.Asset)}
}

func (f *fakeAssets) Upload(ctx context.Context, slideID, name, contentType string, size int64, body io.Reader) (assets.Asset, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return assets.Asset{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	asset := assets.Asset{Name: name, Size: int64(len(data)), LastModified: time.Now().UTC()}
	f.files[slideID] = append(f.files[slideID], asset)
	return asset, nil
}

func (f *fakeAssets) List(ctx context.Context, slideID string) ([]assets.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.files[slideID]), nil
}

func (f *fakeAssets) DeleteSlide(ctx context.Context, slideID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.files[slideID])
	delete(f.files, slideID)
	f.deleted = append(f.deleted, slideID)
	return n, nil
}

func (f *fakeAssets) deletedSlides() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.deleted)
}

func (ts *testServer) upload(slideID, filename string, content []byte) *httptest.ResponseRecorder {
	ts.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if slideID != "" {
		require.NoError(ts.t, mw.WriteField("slide_id", slideID))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(ts.t, err)
		_, err = part.Write(content)
		require.NoError(ts.t, err)
	}
	require.NoError(ts.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/endpoint/slide/asset_upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+ts.editor)
	w := httptest.NewRecorder()
	ts.ws.Handler().ServeHTTP(w, req)
	return w
}

func TestAssetUploadAndList(t *testing.T) {
	fake := newFakeAssets()
	ts := setupServer(t, nil, fake)
	s1, _, _ := ts.lobbyAndHall()

	w := ts.upload(s1, "welcome.png", []byte("png bytes"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	asset := decode[assets.Asset](t, w)
	assert.Equal(t, "welcome.png", asset.Name)
	assert.Equal(t, int64(9), asset.Size)

	w = ts.do(http.MethodGet, "/slide/asset_list?id="+s1, ts.editor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[models.AssetListResponse](t, w)
	assert.Equal(t, s1, list.SlideID)
	require.Len(t, list.Assets, 1)
	assert.Equal(t, "welcome.png", list.Assets[0].Name)

	tests := []struct {
		name     string
		slideID  string
		filename string
		want     int
	}{
		{"unsupported type", s1, "notes.txt", http.StatusBadRequest},
		{"no slide id", "", "a.png", http.StatusBadRequest},
		{"no file", s1, "", http.StatusBadRequest},
		{"unknown slide", "missing", "a.png", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.upload(tt.slideID, tt.filename, []byte("x"))
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestAssetEndpoints_Disabled(t *testing.T) {
	ts := setupServer(t, nil, nil)
	s1, _, _ := ts.lobbyAndHall()

	assert.Equal(t, http.StatusNotFound, ts.upload(s1, "a.png", []byte("x")).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, "/slide/asset_list?id="+s1, ts.editor, nil).Code)

	// deleting a slide still works without asset storage
	w := ts.do(http.MethodPost, "/slide/slide_remove", ts.editor, models.SlideIDRequest{ID: s1})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuditManager(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "signage.db")

	db, err := store.NewDatabase(ctx, store.DriverSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	lobby := &store.Queue{Name: "lobby", Owner: "admin"}
	require.NoError(t, db.CreateQueue(ctx, lobby))

	am, err := NewAuditManager(db, time.Minute)
	require.NoError(t, err)

	orphans, err := am.Audit(ctx)
	require.NoError(t, err)
	assert.Empty(t, orphans)

	// a slide row written around the store, as a legacy import might
	raw, err := sql.Open(store.DriverSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = raw.Close()
	})
	_, err = raw.ExecContext(ctx, `INSERT INTO slides (id, name, owner, markup, duration_ms, version) VALUES ('stray', 'Stray', 'bob', '', 1000, 1)`)
	require.NoError(t, err)

	orphans, err = am.Audit(ctx)
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, "stray", orphans[0].ID)
	assert.True(t, am.lastOrphans.Contains("stray"))

	_, err = raw.ExecContext(ctx, `DELETE FROM slides WHERE id = 'stray'`)
	require.NoError(t, err)

	orphans, err = am.Audit(ctx)
	require.NoError(t, err)
	assert.Empty(t, orphans)
	assert.Equal(t, 0, am.lastOrphans.Cardinality())
}

func TestNewAuditManager_RequiresDB(t *testing.T) {
	_, err := NewAuditManager(nil, time.Minute)
	assert.Error(t, err)
}
