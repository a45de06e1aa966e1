/*
 * @module service/data_quality/assessor
 * @description 数据质量评估器，统计各表行列规模、整行重复数量、列缺失率和推断类型
 * @architecture 分层架构 - 数据质量服务层，只读评估
 * @documentReference ai_docs/data_prep_design.md
 * @stateFlow 表集合读取 -> 逐表统计 -> 质量报告生成 -> 日志输出
 * @rules 评估过程不得修改任何表，报告仅用于诊断，不影响下游清洗
 * @dependencies log/slog, math, github.com/google/uuid, github.com/spf13/cast
 * @refs service/models/quality_report.go, service/pipeline
 */

package data_quality

import (
	"log/slog"
	"math"
	"time"

	"dataprep-service/service/models"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// typeInferenceSampleSize 列类型推断的采样行数上限
const typeInferenceSampleSize = 100

// Assessor 数据质量评估器
type Assessor struct{}

// NewAssessor 创建数据质量评估器实例
func NewAssessor() *Assessor {
	return &Assessor{}
}

// Assess 对已加载的表集合执行质量评估，返回整体质量报告
func (a *Assessor) Assess(tables map[string]*models.Table) *models.QualityReport {
	report := &models.QualityReport{
		ReportID:    uuid.New().String(),
		GeneratedAt: time.Now(),
		Tables:      make(map[string]*models.TableQualityReport, len(tables)),
	}

	for name, table := range tables {
		if table == nil {
			continue
		}
		tableReport := a.assessTable(table)
		report.Tables[name] = tableReport

		slog.Info("数据质量评估",
			"dataset", name,
			"rows", tableReport.RowCount,
			"columns", tableReport.ColumnCount,
			"duplicates", tableReport.DuplicateRows,
			"missing_columns", len(tableReport.MissingRates))
	}

	return report
}

// assessTable 评估单表质量
func (a *Assessor) assessTable(table *models.Table) *models.TableQualityReport {
	return &models.TableQualityReport{
		TableName:     table.Name,
		RowCount:      table.RowCount(),
		ColumnCount:   table.ColumnCount(),
		DuplicateRows: a.countFullRowDuplicates(table),
		MissingRates:  a.missingRates(table),
		ColumnTypes:   a.inferColumnTypes(table),
	}
}

// countFullRowDuplicates 统计整行重复的行数，首次出现不计入
func (a *Assessor) countFullRowDuplicates(table *models.Table) int {
	seen := make(map[string]bool, table.RowCount())
	duplicates := 0
	for _, row := range table.Rows {
		fp := models.RowFingerprint(row, table.Columns)
		if seen[fp] {
			duplicates++
			continue
		}
		seen[fp] = true
	}
	return duplicates
}

// missingRates 计算各列缺失百分比，只保留缺失率大于0的列，保留两位小数
func (a *Assessor) missingRates(table *models.Table) map[string]float64 {
	rates := make(map[string]float64)
	if table.RowCount() == 0 {
		return rates
	}
	for _, col := range table.Columns {
		missing := 0
		for _, row := range table.Rows {
			if models.IsAbsent(row[col]) {
				missing++
			}
		}
		if missing == 0 {
			continue
		}
		pct := float64(missing) / float64(table.RowCount()) * 100
		rates[col] = math.Round(pct*100) / 100
	}
	return rates
}

// inferColumnTypes 基于采样值推断各列类型
func (a *Assessor) inferColumnTypes(table *models.Table) map[string]string {
	types := make(map[string]string, table.ColumnCount())
	for _, col := range table.Columns {
		types[col] = a.inferColumnType(table, col)
	}
	return types
}

// inferColumnType 推断单列类型：integer、float、timestamp、text，全缺失为 unknown
func (a *Assessor) inferColumnType(table *models.Table, col string) string {
	sampled := 0
	isInteger := true
	isFloat := true
	for _, row := range table.Rows {
		value := row[col]
		if models.IsAbsent(value) {
			continue
		}
		if _, ok := value.(time.Time); ok {
			return "timestamp"
		}
		if _, err := cast.ToInt64E(value); err != nil {
			isInteger = false
		}
		if _, err := cast.ToFloat64E(value); err != nil {
			isFloat = false
		}
		sampled++
		if sampled >= typeInferenceSampleSize || (!isInteger && !isFloat) {
			break
		}
	}
	switch {
	case sampled == 0:
		return "unknown"
	case isInteger:
		return "integer"
	case isFloat:
		return "float"
	default:
		return "text"
	}
}
