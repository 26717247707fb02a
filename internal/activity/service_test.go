package activity

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MinhBui2k4/CDTT/internal/web"
)

type failingRepository struct{}

func (failingRepository) Insert(context.Context, Entry) error { return errors.New("disk full") }
func (failingRepository) Recent(context.Context, int, []string) ([]Entry, error) {
	return nil, errors.New("disk full")
}

func TestService_Record(t *testing.T) {
	repo := NewInMemoryRepository(10)
	svc := NewService(repo, logrus.New())
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	svc.Record(context.Background(), "admin@shop.vn", "product", ActionUpdate, 42)

	got, err := svc.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "admin@shop.vn", got[0].Actor)
	assert.Equal(t, ActionUpdate, got[0].Action)
	assert.Equal(t, int64(42), got[0].EntityID)
	assert.Equal(t, fixed, got[0].At)
}

func TestService_RecordFailureIsLogged(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)

	NewService(failingRepository{}, log).Record(context.Background(), "a", "news", ActionDelete, 1)
	assert.Contains(t, buf.String(), "could not record admin activity")
}

func TestHandler_ListFiltersByResource(t *testing.T) {
	repo := NewInMemoryRepository(10)
	svc := NewService(repo, logrus.New())
	svc.Record(context.Background(), "admin@shop.vn", "product", ActionCreate, 1)
	svc.Record(context.Background(), "admin@shop.vn", "order", ActionStatus, 77)

	app := fiber.New(fiber.Config{Views: web.Engine()})
	NewHandler(svc).RegisterProtectedRoutes(app)

	res, err := app.Test(httptest.NewRequest("GET", "/activity?resource=order", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	b, _ := io.ReadAll(res.Body)
	body := string(b)
	assert.Contains(t, body, "#77")
	assert.NotContains(t, body, "#1\n")
}
