package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MitjaBezensek/chart/internal/dataset"
	"github.com/MitjaBezensek/chart/internal/model"
	"github.com/MitjaBezensek/chart/internal/store"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Store a CSV file as a named dataset",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
	cmd.Flags().StringVar(&importName, "name", "", "dataset name (default: file name without extension)")
	cmd.Flags().StringVar(&srcCategory, "category-column", "", "CSV category column (default: first)")
	cmd.Flags().StringVar(&srcValue, "value-column", "", "CSV value column (default: second)")
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	_, logger, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	name := strings.TrimSpace(importName)
	if name == "" {
		name = datasetNameFromPath(args[0])
	}
	if name == "" {
		return fmt.Errorf("--name is required when reading from stdin")
	}
	dv, err := readCSVFile(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeWithWarn(logger, st, "db")
	if _, err := st.SaveDataset(commandContext(cmd), name, dv); err != nil {
		return fmt.Errorf("failed to save dataset: %w", err)
	}
	rows := len(dv.Categorical.Values[0].Values)
	logger.Info("dataset imported", zap.String("name", name), zap.Int("rows", rows))
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %s rows into %q\n", humanize.Comma(int64(rows)), name)
	return err
}

func datasetNameFromPath(path string) string {
	if path == "-" {
		return ""
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func newDatasetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "List stored datasets",
		Args:  cobra.NoArgs,
		RunE:  runDatasetsCmd,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a stored dataset",
		Args:  cobra.ExactArgs(1),
		RunE:  runDatasetsRmCmd,
	})
	return cmd
}

func runDatasetsCmd(cmd *cobra.Command, _ []string) error {
	_, logger, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeWithWarn(logger, st, "db")
	infos, err := st.ListDatasets(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list datasets: %w", err)
	}
	return writeDatasets(cmd.OutOrStdout(), infos, time.Now())
}

func writeDatasets(w io.Writer, infos []model.DatasetInfo, now time.Time) error {
	if len(infos) == 0 {
		_, err := fmt.Fprintln(w, "No datasets stored.")
		return err
	}
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{
			info.Name,
			humanize.Comma(int64(info.Rows)),
			humanize.RelTime(info.CreatedAt, now, "ago", "from now"),
		})
	}
	lines := dataset.FormatTable([]string{"Name", "Rows", "Created"}, rows, map[int]bool{1: true})
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func runDatasetsRmCmd(cmd *cobra.Command, args []string) error {
	_, logger, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeWithWarn(logger, st, "db")
	if err := st.DeleteDataset(commandContext(cmd), args[0]); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("dataset %q not found", args[0])
		}
		return fmt.Errorf("failed to delete dataset: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted %q\n", args[0])
	return err
}
