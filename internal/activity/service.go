package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Recorder is implemented by Service; screens depend on it to log their changes.
type Recorder interface {
	Record(ctx context.Context, actor, resource, action string, entityID int64)
}

type Service struct {
	repo Repository
	log  logrus.FieldLogger
	now  func() time.Time
}

func NewService(repo Repository, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// Record stores an entry. The change it describes has already happened on the
// backend, so a storage failure is logged and otherwise ignored.
func (s *Service) Record(ctx context.Context, actor, resource, action string, entityID int64) {
	e := Entry{
		ID:       uuid.New(),
		Actor:    actor,
		Resource: resource,
		Action:   action,
		EntityID: entityID,
		At:       s.now().UTC(),
	}
	if err := s.repo.Insert(ctx, e); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"resource": resource,
			"action":   action,
			"entity":   entityID,
		}).Warn("could not record admin activity")
	}
}

// Recent returns up to limit entries, newest first, optionally only for the given resources.
func (s *Service) Recent(ctx context.Context, limit int, resources ...string) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.Recent(ctx, limit, resources)
}
