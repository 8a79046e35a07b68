package auditing

import (
	"context"
	"fmt"
	"time"

	"f0oster/sheetaudit/audit"
	"f0oster/sheetaudit/config"
	"f0oster/sheetaudit/logging"
	"f0oster/sheetaudit/observability"
	"f0oster/sheetaudit/sink"
	"f0oster/sheetaudit/snapshot"

	"github.com/sirupsen/logrus"
)

// SinkResolver locates the log sink for a document.
type SinkResolver interface {
	Resolve(ctx context.Context, documentID string) (sink.Sink, bool, error)
}

// Service handles edit, change and open notifications.
// It orchestrates snapshot loading, classification, log writes and baseline updates.
type Service struct {
	cfg       config.Configuration
	snapshots snapshot.Store
	sinks     SinkResolver
	logger    logrus.FieldLogger
	metrics   *observability.Metrics
	now       func() time.Time
}

type Option func(*Service)

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(cfg config.Configuration, snapshots snapshot.Store, sinks SinkResolver, opts ...Option) *Service {
	s := &Service{
		cfg:       cfg,
		snapshots: snapshots,
		sinks:     sinks,
		logger:    logging.Discard(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleEdit records a cell or range edit.
func (s *Service) HandleEdit(ctx context.Context, n audit.EditNotification) (outcome Outcome, err error) {
	defer s.finish(ctx, audit.KindEdit, n.Source, &outcome, &err)

	dest, ok, err := s.sinks.Resolve(ctx, n.Source)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("failed to resolve log sink: %w", err)
	}
	if !ok {
		return OutcomeSkipped, nil
	}

	entry, err := audit.RecordEdit(n, s.stamp(n.User))
	if err != nil {
		return OutcomeFailed, fmt.Errorf("failed to record edit: %w", err)
	}
	if err := s.appendEntry(ctx, dest, entry); err != nil {
		return OutcomeFailed, err
	}

	if n.Structure != nil {
		if err := s.saveSnapshot(ctx, n.Source, *n.Structure); err != nil {
			return OutcomeFailed, err
		}
	}
	return OutcomeLogged, nil
}

// HandleChange classifies a structural change against the previous snapshot.
func (s *Service) HandleChange(ctx context.Context, n audit.ChangeNotification) (outcome Outcome, err error) {
	defer s.finish(ctx, audit.KindChange, n.Source, &outcome, &err)

	dest, ok, err := s.sinks.Resolve(ctx, n.Source)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("failed to resolve log sink: %w", err)
	}
	if !ok {
		return OutcomeSkipped, nil
	}

	prev, err := s.Snapshot(ctx, n.Source)
	if err != nil {
		return OutcomeFailed, err
	}

	next, entry := audit.Classify(prev, n, s.stamp(n.User))

	outcome = OutcomeSuppressed
	if entry != nil {
		if err := s.appendEntry(ctx, dest, *entry); err != nil {
			return OutcomeFailed, err
		}
		outcome = OutcomeLogged
	}

	if err := s.saveSnapshot(ctx, n.Source, next); err != nil {
		return OutcomeFailed, err
	}
	return outcome, nil
}

// HandleOpen stores the structure as the baseline for the next change.
func (s *Service) HandleOpen(ctx context.Context, n audit.OpenNotification) (outcome Outcome, err error) {
	defer s.finish(ctx, audit.KindOpen, n.Source, &outcome, &err)

	if _, ok := s.cfg.Destination(n.Source); !ok {
		return OutcomeSkipped, nil
	}
	if err := s.saveSnapshot(ctx, n.Source, n.Structure); err != nil {
		return OutcomeFailed, err
	}
	return OutcomeBaseline, nil
}

// Snapshot loads the stored baseline for a document.
func (s *Service) Snapshot(ctx context.Context, documentID string) (snapshot.Snapshot, error) {
	key := snapshot.StorageKey(s.cfg.SnapshotDocument(documentID))
	snap, err := s.snapshots.Load(ctx, key)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("failed to load snapshot %s: %w", key, err)
	}
	return snap, nil
}

func (s *Service) saveSnapshot(ctx context.Context, documentID string, snap snapshot.Snapshot) error {
	key := snapshot.StorageKey(s.cfg.SnapshotDocument(documentID))
	if err := s.snapshots.Save(ctx, key, snap); err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", key, err)
	}
	return nil
}

func (s *Service) appendEntry(ctx context.Context, dest sink.Sink, entry audit.LogEntry) error {
	if err := dest.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to append to '%s': %w", dest.Name(), err)
	}
	s.metrics.RecordEntry(ctx, string(entry.ActionType))
	s.logger.WithFields(logrus.Fields{
		"destination": dest.Name(),
		"action_type": entry.ActionType,
		"user":        entry.User,
	}).Info(entry.Details)
	return nil
}

func (s *Service) stamp(user string) audit.Stamp {
	return audit.NewStamp(s.now(), s.cfg.Location, user)
}

// finish is deferred by every handler. Panics and errors become OutcomeFailed,
// and every outcome is logged and counted.
func (s *Service) finish(ctx context.Context, kind audit.Kind, documentID string, outcome *Outcome, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("handler panic: %v", r)
	}
	if *err != nil {
		*outcome = OutcomeFailed
	}

	fields := logrus.Fields{
		"kind":        kind,
		"document_id": documentID,
		"outcome":     *outcome,
	}
	if *err != nil {
		s.logger.WithFields(fields).WithError(*err).Error("notification handler failed")
	} else {
		s.logger.WithFields(fields).Debug("notification handled")
	}
	s.metrics.RecordOutcome(ctx, string(kind), string(*outcome))
}
