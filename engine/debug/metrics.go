package debug

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-draw/engine/debug/context_group"
	"github.com/Carmen-Shannon/oxy-draw/engine/debug/shapes"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/Carmen-Shannon/oxy-draw/engine/debug"

const groupCount = 2

// metrics holds the debug draw instruments. Without an SDK meter provider every instrument is a no-op.
type metrics struct {
	appended metric.Int64Counter
	pruned   metric.Int64Counter
	dropped  metric.Int64Counter
	skipped  metric.Int64Counter
	live     metric.Int64ObservableGauge

	// liveCounts is published by the frame goroutine and read by the gauge callback
	liveCounts [groupCount][shapes.KindText + 1]atomic.Int64

	kindAttrs  [shapes.KindText + 1]attribute.KeyValue
	groupAttrs [groupCount]attribute.KeyValue
}

func newMetrics(provider metric.MeterProvider) (*metrics, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	m := provider.Meter(instrumentationName)
	mt := &metrics{}
	for k := range mt.kindAttrs {
		mt.kindAttrs[k] = attribute.String("kind", shapes.Kind(k).String())
	}
	for g := range mt.groupAttrs {
		mt.groupAttrs[g] = attribute.String("group", context_group.GroupKind(g).String())
	}

	var err error
	mt.appended, err = m.Int64Counter(
		"debug_draw.shapes.appended",
		metric.WithDescription("Total debug shapes and labels appended"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating appended counter: %w", err)
	}

	mt.pruned, err = m.Int64Counter(
		"debug_draw.shapes.pruned",
		metric.WithDescription("Total debug shapes and labels removed by expiry"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pruned counter: %w", err)
	}

	mt.dropped, err = m.Int64Counter(
		"debug_draw.shapes.dropped",
		metric.WithDescription("Total appends dropped by the frame router"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}

	mt.skipped, err = m.Int64Counter(
		"debug_draw.draws.skipped",
		metric.WithDescription("Total per-kind draws skipped during render"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating skipped counter: %w", err)
	}

	mt.live, err = m.Int64ObservableGauge(
		"debug_draw.shapes.live",
		metric.WithDescription("Current number of live debug shapes"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating live gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			for g := range mt.liveCounts {
				for k := range mt.liveCounts[g] {
					o.ObserveInt64(mt.live, mt.liveCounts[g][k].Load(),
						metric.WithAttributes(mt.groupAttrs[g], mt.kindAttrs[k]))
				}
			}
			return nil
		},
		mt.live,
	)
	if err != nil {
		return nil, fmt.Errorf("registering live callback: %w", err)
	}

	return mt, nil
}

func (mt *metrics) recordAppend(group context_group.GroupKind, k shapes.Kind) {
	mt.appended.Add(context.Background(), 1, metric.WithAttributes(mt.kindAttrs[k], mt.groupAttrs[group]))
}

func (mt *metrics) recordDrop(reason string) {
	mt.dropped.Add(context.Background(), 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (mt *metrics) recordPrune(k shapes.Kind, n int) {
	if n == 0 {
		return
	}
	mt.pruned.Add(context.Background(), int64(n), metric.WithAttributes(mt.kindAttrs[k]))
}

func (mt *metrics) recordSkip(k shapes.Kind, reason string) {
	mt.skipped.Add(context.Background(), 1, metric.WithAttributes(mt.kindAttrs[k], attribute.String("reason", reason)))
}

// publish snapshots the live counts of g for the gauge callback.
func (mt *metrics) publish(g context_group.Group) {
	idx := int(g.Kind())
	if idx < 0 || idx >= groupCount {
		return
	}
	for k, n := range g.Counts() {
		mt.liveCounts[idx][k].Store(int64(n))
	}
}
