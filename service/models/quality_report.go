/*
 * @module service/models/quality_report
 * @description 数据质量报告模型，记录各表的行列规模、重复行数量、缺失率和推断类型
 * @architecture 数据模型层
 * @documentReference ai_docs/data_prep_design.md
 * @stateFlow 质量评估执行 -> 报告生成 -> 日志输出
 * @rules 质量报告只读，不影响下游清洗和合并结果
 * @dependencies time
 * @refs service/data_quality/assessor.go
 */

package models

import "time"

// TableQualityReport 单表质量评估结果
type TableQualityReport struct {
	TableName     string             `json:"table_name"`
	RowCount      int                `json:"row_count"`
	ColumnCount   int                `json:"column_count"`
	DuplicateRows int                `json:"duplicate_rows"`
	MissingRates  map[string]float64 `json:"missing_rates"` // 仅包含缺失率大于0的列，百分比保留两位小数
	ColumnTypes   map[string]string  `json:"column_types"`  // 列名 -> 推断类型
}

// QualityReport 整体质量评估报告
type QualityReport struct {
	ReportID    string                         `json:"report_id"`
	GeneratedAt time.Time                      `json:"generated_at"`
	Tables      map[string]*TableQualityReport `json:"tables"`
}
