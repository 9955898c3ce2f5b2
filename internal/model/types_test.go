package model

import "testing"

func TestSettingsWith(t *testing.T) {
	decimals := -3
	unit := UnitMillions
	padding := 1.5
	margin := 10.0
	reconcile := "sorted"
	s := DefaultSettings().With(&SettingsOverrides{
		DataLabels: DataLabelOverrides{DecimalPlaces: &decimals, DisplayUnit: &unit},
		Chart:      ChartOverrides{Padding: &padding, Margin: &margin, Reconcile: &reconcile},
	})

	if s.DataLabels.DecimalPlaces != 0 {
		t.Fatalf("expected negative decimals clamped to 0, got %d", s.DataLabels.DecimalPlaces)
	}
	if s.DataLabels.DisplayUnit != UnitMillions {
		t.Fatalf("expected unit M, got %q", s.DataLabels.DisplayUnit)
	}
	if s.Chart.Padding != 0.3 {
		t.Fatalf("expected invalid padding ignored, got %v", s.Chart.Padding)
	}
	if s.Chart.Margin != 10 {
		t.Fatalf("expected margin 10, got %v", s.Chart.Margin)
	}
	if s.Chart.Reconcile != ReconcilePositional {
		t.Fatalf("expected unknown reconcile mode ignored, got %q", s.Chart.Reconcile)
	}
	if s.DataLabels.FontFamily != "Segoe UI" || s.DataLabels.FontSize != 12 {
		t.Fatalf("expected default font kept, got %+v", s.DataLabels)
	}
}

func TestSettingsWithNil(t *testing.T) {
	if got := DefaultSettings().With(nil); got != DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestOverridesMerge(t *testing.T) {
	first, second := 1, 4
	hide := true
	base := &SettingsOverrides{DataLabels: DataLabelOverrides{DecimalPlaces: &first, HideUnits: &hide}}
	base.Merge(&SettingsOverrides{DataLabels: DataLabelOverrides{DecimalPlaces: &second}})
	base.Merge(nil)

	if *base.DataLabels.DecimalPlaces != 4 {
		t.Fatalf("expected later override to win, got %d", *base.DataLabels.DecimalPlaces)
	}
	if base.DataLabels.HideUnits == nil || !*base.DataLabels.HideUnits {
		t.Fatalf("expected unset field to keep earlier value")
	}
}

func TestFormatOptions(t *testing.T) {
	opts := DefaultSettings().FormatOptions("de-DE")
	want := FormatOptions{DecimalPlaces: 2, DisplayUnit: UnitAuto, Locale: "de-DE"}
	if opts != want {
		t.Fatalf("expected %+v, got %+v", want, opts)
	}
}
