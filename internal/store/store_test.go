package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/MitjaBezensek/chart/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "barchart.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return st
}

func sampleView(values ...*float64) *model.DataView {
	categories := make([]string, len(values))
	for i := range values {
		categories[i] = string(rune('a' + i))
	}
	return &model.DataView{
		Categorical: &model.Categorical{
			Categories: []model.CategoryColumn{{Source: model.ColumnMeta{DisplayName: "Region"}, Values: categories}},
			Values:     []model.ValueColumn{{Source: model.ColumnMeta{DisplayName: "Sales"}, Values: values}},
		},
	}
}

func fptr(v float64) *float64 {
	return &v
}

func TestSaveAndLoadDataView(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, err := st.SaveDataset(ctx, "sales", sampleView(fptr(10), nil, fptr(-2.5))); err != nil {
		t.Fatalf("save dataset: %v", err)
	}
	dv, err := st.LoadDataView(ctx, "sales")
	if err != nil {
		t.Fatalf("load dataset: %v", err)
	}

	cats := dv.Categorical.Categories[0]
	vals := dv.Categorical.Values[0]
	if cats.Source.DisplayName != "Region" || vals.Source.DisplayName != "Sales" {
		t.Fatalf("unexpected columns %+v %+v", cats.Source, vals.Source)
	}
	if len(cats.Values) != 3 || cats.Values[2] != "c" {
		t.Fatalf("unexpected categories %v", cats.Values)
	}
	if *vals.Values[0] != 10 || vals.Values[1] != nil || *vals.Values[2] != -2.5 {
		t.Fatalf("unexpected values %v", vals.Values)
	}
}

func TestSaveDatasetReplaces(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	st.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	if _, err := st.SaveDataset(ctx, "sales", sampleView(fptr(1), fptr(2), fptr(3))); err != nil {
		t.Fatalf("save dataset: %v", err)
	}
	if _, err := st.SaveDataset(ctx, "sales", sampleView(fptr(4))); err != nil {
		t.Fatalf("replace dataset: %v", err)
	}
	if _, err := st.SaveDataset(ctx, "costs", sampleView(fptr(5), fptr(6))); err != nil {
		t.Fatalf("save dataset: %v", err)
	}

	infos, err := st.ListDatasets(ctx)
	if err != nil {
		t.Fatalf("list datasets: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 datasets, got %d", len(infos))
	}
	if infos[0].Name != "costs" || infos[0].Rows != 2 || infos[1].Name != "sales" || infos[1].Rows != 1 {
		t.Fatalf("unexpected listing %+v", infos)
	}
	if !infos[1].CreatedAt.Equal(st.now()) {
		t.Fatalf("unexpected created time %v", infos[1].CreatedAt)
	}
}

func TestDeleteDataset(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if _, err := st.SaveDataset(ctx, "sales", sampleView(fptr(1))); err != nil {
		t.Fatalf("save dataset: %v", err)
	}
	if err := st.DeleteDataset(ctx, "sales"); err != nil {
		t.Fatalf("delete dataset: %v", err)
	}
	if _, err := st.LoadDataView(ctx, "sales"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := st.DeleteDataset(ctx, "sales"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing dataset, got %v", err)
	}
}

func TestSaveDatasetRejectsEmptyView(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.SaveDataset(context.Background(), "x", &model.DataView{}); err == nil {
		t.Fatalf("expected error for view without values")
	}
}
