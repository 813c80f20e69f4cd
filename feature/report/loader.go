package report

import (
	"github.com/devopstales/netbox-registrator/core/archive"
	"github.com/devopstales/netbox-registrator/core/journal"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the report feature. The archive may be nil when
// snapshot archiving is disabled, the snapshot endpoint then answers 503.
func NewFeature(j *journal.Journal, arc *archive.Archive, logger *zap.Logger) *Feature {
	svc := NewService(j, arc, logger)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "report"
}

// IsEnabled checks if the feature can serve. It needs the journal.
func (f *Feature) IsEnabled() bool {
	return f.service.journal != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
