package trigger

import (
	"context"
	"fmt"

	"f0oster/sheetaudit/audit"
	"f0oster/sheetaudit/auditing"

	"github.com/sirupsen/logrus"
)

// Handler is the set of notification handlers a dispatcher delivers to.
type Handler interface {
	HandleEdit(ctx context.Context, n audit.EditNotification) (auditing.Outcome, error)
	HandleChange(ctx context.Context, n audit.ChangeNotification) (auditing.Outcome, error)
	HandleOpen(ctx context.Context, n audit.OpenNotification) (auditing.Outcome, error)
}

// Delivery is the result of invoking the handler for one subscription.
type Delivery struct {
	Subscription Subscription     `json:"subscription"`
	Outcome      auditing.Outcome `json:"outcome"`
	Error        string           `json:"error,omitempty"`
}

// Dispatcher delivers each notification once per matching subscription, the
// way the host platform fires every registered trigger.
type Dispatcher struct {
	registry Registry
	handler  Handler
	logger   logrus.FieldLogger
}

func NewDispatcher(registry Registry, handler Handler, logger logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{registry: registry, handler: handler, logger: logger}
}

func (d *Dispatcher) DispatchEdit(ctx context.Context, n audit.EditNotification) ([]Delivery, error) {
	return d.dispatch(ctx, n.Source, audit.KindEdit, func() (auditing.Outcome, error) {
		return d.handler.HandleEdit(ctx, n)
	})
}

func (d *Dispatcher) DispatchChange(ctx context.Context, n audit.ChangeNotification) ([]Delivery, error) {
	return d.dispatch(ctx, n.Source, audit.KindChange, func() (auditing.Outcome, error) {
		return d.handler.HandleChange(ctx, n)
	})
}

func (d *Dispatcher) DispatchOpen(ctx context.Context, n audit.OpenNotification) ([]Delivery, error) {
	return d.dispatch(ctx, n.Source, audit.KindOpen, func() (auditing.Outcome, error) {
		return d.handler.HandleOpen(ctx, n)
	})
}

// dispatch returns an error only when the registry cannot be read. Handler
// failures are reported per delivery and never abort the remaining deliveries.
func (d *Dispatcher) dispatch(ctx context.Context, documentID string, kind audit.Kind, invoke func() (auditing.Outcome, error)) ([]Delivery, error) {
	subs, err := d.registry.Subscriptions(ctx, documentID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	if len(subs) == 0 {
		d.logger.WithFields(logrus.Fields{"document_id": documentID, "kind": kind}).
			Warn("no subscription, notification not delivered")
		return nil, nil
	}

	deliveries := make([]Delivery, 0, len(subs))
	for _, sub := range subs {
		outcome, err := invoke()
		delivery := Delivery{Subscription: sub, Outcome: outcome}
		if err != nil {
			delivery.Error = err.Error()
		}
		deliveries = append(deliveries, delivery)
	}
	return deliveries, nil
}
