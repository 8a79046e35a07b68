package trigger_test

import (
	"context"
	"errors"
	"testing"

	"f0oster/sheetaudit/audit"
	"f0oster/sheetaudit/auditing"
	"f0oster/sheetaudit/logging"
	"f0oster/sheetaudit/trigger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingHandler struct {
	edits, changes, opens int
	err                   error
}

func (h *countingHandler) HandleEdit(context.Context, audit.EditNotification) (auditing.Outcome, error) {
	h.edits++
	if h.err != nil {
		return auditing.OutcomeFailed, h.err
	}
	return auditing.OutcomeLogged, nil
}

func (h *countingHandler) HandleChange(context.Context, audit.ChangeNotification) (auditing.Outcome, error) {
	h.changes++
	return auditing.OutcomeSuppressed, nil
}

func (h *countingHandler) HandleOpen(context.Context, audit.OpenNotification) (auditing.Outcome, error) {
	h.opens++
	return auditing.OutcomeBaseline, nil
}

func TestInstall_RegistersEveryKind(t *testing.T) {
	ctx := context.Background()
	reg := trigger.NewMemoryRegistry()

	installed, err := trigger.Install(ctx, reg, []string{"doc-a", "doc-b"})
	require.NoError(t, err)
	assert.Len(t, installed, 6)

	for _, kind := range []audit.Kind{audit.KindEdit, audit.KindChange, audit.KindOpen} {
		subs, err := reg.Subscriptions(ctx, "doc-b", kind)
		require.NoError(t, err)
		assert.Len(t, subs, 1, "kind %s", kind)
	}
}

func TestInstall_TwiceDuplicatesSubscriptions(t *testing.T) {
	ctx := context.Background()
	reg := trigger.NewMemoryRegistry()

	first, err := trigger.Install(ctx, reg, []string{"doc-a"})
	require.NoError(t, err)
	second, err := trigger.Install(ctx, reg, []string{"doc-a"})
	require.NoError(t, err)
	assert.NotEqual(t, first[0].ID, second[0].ID)

	subs, err := reg.Subscriptions(ctx, "doc-a", audit.KindEdit)
	require.NoError(t, err)
	assert.Len(t, subs, 2)

	h := &countingHandler{}
	d := trigger.NewDispatcher(reg, h, logging.Discard())
	deliveries, err := d.DispatchEdit(ctx, audit.EditNotification{Source: "doc-a"})
	require.NoError(t, err)
	assert.Len(t, deliveries, 2)
	assert.Equal(t, 2, h.edits)
}

func TestDispatcher_NoSubscriptionNoDelivery(t *testing.T) {
	ctx := context.Background()
	h := &countingHandler{}
	d := trigger.NewDispatcher(trigger.NewMemoryRegistry(), h, logging.Discard())

	deliveries, err := d.DispatchChange(ctx, audit.ChangeNotification{Source: "doc-a"})
	require.NoError(t, err)
	assert.Empty(t, deliveries)
	assert.Equal(t, 0, h.changes)
}

func TestDispatcher_ReportsHandlerErrors(t *testing.T) {
	ctx := context.Background()
	reg := trigger.NewMemoryRegistry()
	_, err := trigger.Install(ctx, reg, []string{"doc-a"})
	require.NoError(t, err)

	h := &countingHandler{err: errors.New("sink unavailable")}
	d := trigger.NewDispatcher(reg, h, logging.Discard())

	deliveries, err := d.DispatchEdit(ctx, audit.EditNotification{Source: "doc-a"})
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	assert.Equal(t, auditing.OutcomeFailed, deliveries[0].Outcome)
	assert.Equal(t, "sink unavailable", deliveries[0].Error)

	deliveries, err = d.DispatchOpen(ctx, audit.OpenNotification{Source: "doc-a"})
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	assert.Equal(t, auditing.OutcomeBaseline, deliveries[0].Outcome)
}
