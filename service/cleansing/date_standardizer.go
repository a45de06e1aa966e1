/*
 * @module service/cleansing/date_standardizer
 * @description 日期标准化器，将日期列统一转换为时间戳或缺失值
 * @architecture 工具函数模式 - 逐列逐值转换
 * @documentReference ai_docs/data_prep_design.md
 * @stateFlow 列值转文本 -> 占位符替换 -> 时间解析 -> 时间戳或缺失值
 * @rules 标准化后日期列的值域只有 time.Time 和 nil，解析失败不报错
 * @dependencies time, strings
 * @refs service/cleansing/table_cleaners.go
 */

package cleansing

import (
	"strings"
	"time"

	"dataprep-service/service/models"

	"github.com/spf13/cast"
)

// dateLayouts 支持的日期格式，按出现频率排序
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// isPlaceholder 判断文本是否为已知的占位符标记
// Excel 导出的窄列会把日期显示为连续的 # 字符
func isPlaceholder(text string) bool {
	if text == "" {
		return true
	}
	if text == "nan" || text == "NaN" {
		return true
	}
	for _, ch := range text {
		if ch != '#' {
			return false
		}
	}
	return true
}

// ParseTimestamp 解析单个日期值，占位符和无法解析的值返回缺失
func ParseTimestamp(value interface{}) interface{} {
	if models.IsAbsent(value) {
		return nil
	}
	if ts, ok := value.(time.Time); ok {
		return ts
	}
	text := strings.TrimSpace(cast.ToString(value))
	if isPlaceholder(text) {
		return nil
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, text); err == nil {
			return ts
		}
	}
	return nil
}

// StandardizeDates 标准化表中指定日期列，不存在的列跳过
func StandardizeDates(table *models.Table, columns []string) {
	if table == nil {
		return
	}
	for _, col := range columns {
		if !table.HasColumn(col) {
			continue
		}
		for _, row := range table.Rows {
			row[col] = ParseTimestamp(row[col])
		}
	}
}
