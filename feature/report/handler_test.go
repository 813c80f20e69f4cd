package report

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/devopstales/netbox-registrator/core/archive"
	"github.com/devopstales/netbox-registrator/core/archive/mocks"
	"github.com/devopstales/netbox-registrator/core/journal"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupJournal(t *testing.T) *journal.Journal {
	t.Helper()
	db, err := journal.Connect(journal.Config{
		Driver: journal.DriverSQLite,
		Path:   ":memory:",
	})
	require.NoError(t, err)
	j, err := journal.New(db)
	require.NoError(t, err)
	return j
}

func seedRuns(t *testing.T, j *journal.Journal) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, j.Record(ctx, &journal.Run{
		ID:         "run-1",
		Device:     "srv01",
		StartedAt:  time.Now().Add(-2 * time.Hour),
		FinishedAt: time.Now().Add(-2 * time.Hour),
		Status:     journal.StatusOK,
		Creates:    5,
		Actions: []journal.Action{
			{Collection: "dcim/devices", Kind: "create", Key: "srv01"},
			{Collection: "dcim/interfaces", Kind: "create", Key: "eno1"},
		},
	}))
	require.NoError(t, j.Record(ctx, &journal.Run{
		ID:         "run-2",
		Device:     "srv01",
		StartedAt:  time.Now().Add(-time.Hour),
		FinishedAt: time.Now().Add(-time.Hour),
		Status:     journal.StatusOK,
		Unchanged:  7,
	}))
}

func setupTestApp(t *testing.T, arc *archive.Archive) *fiber.App {
	t.Helper()
	j := setupJournal(t)
	seedRuns(t, j)

	app := fiber.New()
	feature := NewFeature(j, arc, zap.NewNop())
	require.NoError(t, feature.Load(app))
	return app
}

func TestFeature(t *testing.T) {
	feature := NewFeature(setupJournal(t), nil, zap.NewNop())

	assert.Equal(t, "report", feature.Name())
	assert.True(t, feature.IsEnabled())
}

func TestHandleListRuns(t *testing.T) {
	app := setupTestApp(t, nil)

	req := httptest.NewRequest("GET", "/runs/", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Count int           `json:"count"`
		Runs  []journal.Run `json:"runs"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, 2, body.Count)
	assert.Equal(t, "run-2", body.Runs[0].ID, "newest run comes first")
	assert.Empty(t, body.Runs[0].Actions, "the list omits action trails")
}

func TestHandleListRunsLimit(t *testing.T) {
	app := setupTestApp(t, nil)

	req := httptest.NewRequest("GET", "/runs/?limit=1", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Count)
}

func TestHandleGetRun(t *testing.T) {
	app := setupTestApp(t, nil)

	req := httptest.NewRequest("GET", "/runs/run-1", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var run journal.Run
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, "srv01", run.Device)
	assert.Len(t, run.Actions, 2)
}

func TestHandleGetRunNotFound(t *testing.T) {
	app := setupTestApp(t, nil)

	req := httptest.NewRequest("GET", "/runs/no-such-run", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleListSnapshots(t *testing.T) {
	mockClient := new(mocks.Client)
	ch := make(chan minio.ObjectInfo, 1)
	ch <- minio.ObjectInfo{Key: "srv01/run-1.json", Size: 512, LastModified: time.Now()}
	close(ch)
	mockClient.On("ListObjects", mock.Anything, "snapshots", mock.MatchedBy(func(opts minio.ListObjectsOptions) bool {
		return opts.Prefix == "srv01/"
	})).Return((<-chan minio.ObjectInfo)(ch))

	arc := archive.New(mockClient, archive.Config{Bucket: "snapshots"}, zap.NewNop())
	app := setupTestApp(t, arc)

	req := httptest.NewRequest("GET", "/devices/srv01/snapshots", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Count     int             `json:"count"`
		Snapshots []archive.Entry `json:"snapshots"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "srv01/run-1.json", body.Snapshots[0].Name)
	mockClient.AssertExpectations(t)
}

func TestHandleListSnapshotsWithoutArchive(t *testing.T) {
	app := setupTestApp(t, nil)

	req := httptest.NewRequest("GET", "/devices/srv01/snapshots", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}
