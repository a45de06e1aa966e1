/*
 * @module service/exporter/csv_exporter
 * @description CSV 导出器，将清洗后的各表和主数据集写入输出目录
 * @architecture 外部协作者 - 文件写入层
 * @documentReference ai_docs/data_prep_design.md
 * @stateFlow 输出目录创建 -> 逐表写出 cleaned_<name>.csv -> 主数据集写出 master_dataset.csv
 * @rules 缺失值写为空单元格，时间戳统一使用标准格式，输出目录不存在时自动创建
 * @dependencies encoding/csv, os, path/filepath
 * @refs service/models/table.go, service/pipeline
 */

package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dataprep-service/service/meta"
	"dataprep-service/service/models"
)

// CSVExporter CSV 导出器
type CSVExporter struct {
	outputDir string
}

// NewCSVExporter 创建 CSV 导出器实例
func NewCSVExporter(outputDir string) *CSVExporter {
	return &CSVExporter{outputDir: outputDir}
}

// ExportDatasets 导出全部清洗后的表和主数据集
// master 为 nil 时只导出清洗后的表
func (e *CSVExporter) ExportDatasets(tables map[string]*models.Table, master *models.Table) error {
	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	for _, name := range meta.DatasetNames {
		table := tables[name]
		if table == nil {
			continue
		}
		filename := filepath.Join(e.outputDir, fmt.Sprintf("cleaned_%s.csv", name))
		if err := e.exportTable(filename, table); err != nil {
			return fmt.Errorf("导出数据集 %s 失败: %w", name, err)
		}
		slog.Info("数据集导出完成", "dataset", name, "file", filename)
	}

	if master != nil {
		filename := filepath.Join(e.outputDir, "master_dataset.csv")
		if err := e.exportTable(filename, master); err != nil {
			return fmt.Errorf("导出主数据集失败: %w", err)
		}
		slog.Info("主数据集导出完成", "file", filename, "rows", master.RowCount())
	}

	return nil
}

// exportTable 将单表写为 CSV 文件
func (e *CSVExporter) exportTable(filename string, table *models.Table) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("创建文件失败: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(table.Columns); err != nil {
		return fmt.Errorf("写入表头失败: %w", err)
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, col := range table.Columns {
			record[i] = models.CellString(row[col])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("写入数据行失败: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
