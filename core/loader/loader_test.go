package loader

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFeature struct {
	name    string
	enabled bool
	loadErr error
	loaded  bool
}

func (f *stubFeature) Name() string    { return f.name }
func (f *stubFeature) IsEnabled() bool { return f.enabled }

func (f *stubFeature) Load(app fiber.Router) error {
	if f.loadErr != nil {
		return f.loadErr
	}
	f.loaded = true
	app.Get("/"+f.name, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return nil
}

func TestLoadAllSkipsDisabledFeatures(t *testing.T) {
	app := fiber.New()
	enabled := &stubFeature{name: "runs", enabled: true}
	disabled := &stubFeature{name: "extras", enabled: false}

	mgr := NewManager()
	mgr.Register(enabled)
	mgr.Register(disabled)

	require.NoError(t, mgr.LoadAll(app))
	assert.True(t, enabled.loaded)
	assert.False(t, disabled.loaded)

	resp, err := app.Test(httptest.NewRequest("GET", "/runs", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/extras", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestLoadAllPropagatesErrors(t *testing.T) {
	app := fiber.New()
	broken := &stubFeature{name: "broken", enabled: true, loadErr: errors.New("boom")}

	mgr := NewManager()
	mgr.Register(broken)

	err := mgr.LoadAll(app)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load feature broken")
}
