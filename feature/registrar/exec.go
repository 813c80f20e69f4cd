package registrar

import (
	"context"

	"github.com/devopstales/netbox-registrator/core/netbox"

	"go.uber.org/zap"
)

// exec wraps the inventory client with action recording and dry-run
// handling. Reads always pass through. In dry-run mode mutations are
// suppressed and answered with synthetic negative ids, so dependent steps
// can still describe what they would reference. Mutations are recorded
// only when they succeed; a failed call is the caller's to report, as a
// skip or as a fatal error.
type exec struct {
	client  netbox.Client
	log     *zap.Logger
	dryRun  bool
	actions []Action
	summary Summary
	nextID  int
}

func newExec(client netbox.Client, dryRun bool, log *zap.Logger) *exec {
	return &exec{client: client, dryRun: dryRun, log: log, nextID: -1}
}

func (e *exec) record(a Action) {
	e.actions = append(e.actions, a)

	fields := []zap.Field{
		zap.String("collection", a.Collection),
		zap.String("key", a.Key),
		zap.Bool("dry_run", e.dryRun),
	}
	if a.Reason != "" {
		fields = append(fields, zap.String("reason", a.Reason))
	}
	switch a.Type {
	case ActionCreate:
		e.summary.Creates++
		e.log.Info("create", fields...)
	case ActionUpdate:
		e.summary.Updates++
		e.log.Info("update", fields...)
	case ActionNoop:
		e.summary.Unchanged++
		e.log.Debug("in sync", fields...)
	case ActionSkip:
		e.summary.Skips++
		e.log.Warn("skipped", fields...)
	}
}

func (e *exec) get(ctx context.Context, collection string, params netbox.Params) (*netbox.List, error) {
	return e.client.Get(ctx, collection, params)
}

// findOne runs a filtered query and returns the first result that actually
// satisfies match, or nil. A row coming back for a filter it does not
// match is treated as not found rather than trusted.
func (e *exec) findOne(ctx context.Context, collection string, params netbox.Params, match func(netbox.Row) bool) (netbox.Row, error) {
	list, err := e.get(ctx, collection, params)
	if err != nil {
		return nil, err
	}
	for _, row := range list.Results {
		if match == nil || match(row) {
			return row, nil
		}
	}
	if len(list.Results) > 0 {
		e.log.Warn("inventory returned rows not matching the filter, treating as not found",
			zap.String("collection", collection), zap.Any("filter", params))
	}
	return nil, nil
}

// create performs a create and records it. In dry-run mode the body is
// echoed back under a synthetic id.
func (e *exec) create(ctx context.Context, collection, key, reason string, body netbox.Body) (netbox.Row, error) {
	if e.dryRun {
		e.record(Action{Type: ActionCreate, Collection: collection, Key: key, Reason: reason})
		row := netbox.Row{}
		for k, v := range body {
			row[k] = v
		}
		row["id"] = e.nextID
		e.nextID--
		return row, nil
	}

	row, err := e.client.Create(ctx, collection, body)
	if err != nil {
		return nil, err
	}
	e.record(Action{Type: ActionCreate, Collection: collection, Key: key, Reason: reason})
	return row, nil
}

// update performs a partial update and records it.
func (e *exec) update(ctx context.Context, collection string, id int, key, reason string, body netbox.Body) (netbox.Row, error) {
	if e.dryRun {
		e.record(Action{Type: ActionUpdate, Collection: collection, Key: key, Reason: reason})
		row := netbox.Row{}
		for k, v := range body {
			row[k] = v
		}
		row["id"] = id
		return row, nil
	}

	row, err := e.client.Update(ctx, collection, id, body)
	if err != nil {
		return nil, err
	}
	e.record(Action{Type: ActionUpdate, Collection: collection, Key: key, Reason: reason})
	return row, nil
}

// noop records that an object already matched the observed state.
func (e *exec) noop(collection, key string) {
	e.record(Action{Type: ActionNoop, Collection: collection, Key: key})
}

// keep records that an object stays as it is because the ownership policy
// wants it that way. A no-op with the policy decision as its reason.
func (e *exec) keep(collection, key, reason string) {
	e.record(Action{Type: ActionNoop, Collection: collection, Key: key, Reason: reason})
}

// skip records that an object was given up on.
func (e *exec) skip(collection, key, reason string) {
	e.record(Action{Type: ActionSkip, Collection: collection, Key: key, Reason: reason})
}
