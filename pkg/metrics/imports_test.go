package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestImportMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewImportMetrics(reg)

	m.Acquired()
	m.AddRows("brands", "ok", 3)
	m.AddRows("brands", "failed", 1)
	m.AddRows("brands", "failed", 0)
	m.ObserveImport("brands", "failed", 250*time.Millisecond)
	m.Acquired()
	m.Released()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "backoffice_import_rows_total", map[string]string{"entity": "brands", "outcome": "ok"}); err != nil {
		t.Fatalf("fetch ok rows: %v", err)
	} else if got != 3 {
		t.Fatalf("expected ok rows=3, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "backoffice_import_rows_total", map[string]string{"entity": "brands", "outcome": "failed"}); err != nil {
		t.Fatalf("fetch failed rows: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failed rows=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "backoffice_imports_total", map[string]string{"entity": "brands", "status": "failed"}); err != nil {
		t.Fatalf("fetch imports: %v", err)
	} else if got != 1 {
		t.Fatalf("expected imports=1, got %f", got)
	}

	mf := findMetricFamily(mfs, "backoffice_import_duration_seconds")
	if mf == nil || mf.GetMetric()[0].GetHistogram().GetSampleSum() <= 0 {
		t.Fatalf("expected duration sample")
	}
	gauge := findMetricFamily(mfs, "backoffice_imports_in_flight")
	if gauge == nil || gauge.GetMetric()[0].GetGauge().GetValue() != 1 {
		t.Fatalf("expected one in-flight import")
	}
}

func TestNilImportMetricsIsNoop(t *testing.T) {
	var m *ImportMetrics
	m.AddRows("products", "ok", 1)
	m.ObserveImport("products", "ok", time.Second)
	m.Acquired()
	m.Released()

	NewImportMetrics(nil).AddRows("products", "ok", 1)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, p := range pairs {
		if v, ok := want[p.GetName()]; ok && v == p.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
