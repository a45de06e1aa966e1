/*
 * @module service/models/table
 * @description 内存表格数据结构，提供行记录存储、列顺序维护、去重、过滤等表级操作
 * @architecture 数据模型层 - 有序列 + 行记录的表抽象
 * @documentReference ai_docs/data_prep_design.md
 * @stateFlow 加载 -> 质量评估 -> 清洗 -> 合并 -> 导出
 * @rules 缺失值统一用 nil 表示，表操作返回新表，不修改调用方持有的原表
 * @dependencies github.com/spf13/cast
 * @refs service/cleansing, service/master
 */

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Table 内存表格，按列顺序保存行记录
type Table struct {
	Name    string                   `json:"name"`
	Columns []string                 `json:"columns"`
	Rows    []map[string]interface{} `json:"rows"`
}

// NewTable 创建空表
func NewTable(name string, columns []string) *Table {
	return &Table{
		Name:    name,
		Columns: append([]string{}, columns...),
		Rows:    make([]map[string]interface{}, 0),
	}
}

// RowCount 行数
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnCount 列数
func (t *Table) ColumnCount() int {
	return len(t.Columns)
}

// HasColumn 判断列是否存在
func (t *Table) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// AddColumn 追加列，已存在时不重复添加
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// AppendRow 追加一行记录
func (t *Table) AppendRow(row map[string]interface{}) {
	t.Rows = append(t.Rows, row)
}

// Copy 深拷贝整张表，清洗阶段在副本上操作，保证评估阶段读取的原表不被修改
func (t *Table) Copy() *Table {
	if t == nil {
		return nil
	}
	copied := &Table{
		Name:    t.Name,
		Columns: append([]string{}, t.Columns...),
		Rows:    make([]map[string]interface{}, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		copied.Rows = append(copied.Rows, CopyRecord(row))
	}
	return copied
}

// CopyRecord 拷贝单条记录
func CopyRecord(row map[string]interface{}) map[string]interface{} {
	copied := make(map[string]interface{}, len(row))
	for k, v := range row {
		copied[k] = v
	}
	return copied
}

// IsAbsent 判断单元格是否为缺失值
func IsAbsent(value interface{}) bool {
	return value == nil
}

// RowFingerprint 按给定列顺序生成行指纹，用于去重比较
func RowFingerprint(row map[string]interface{}, columns []string) string {
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		value := row[col]
		if IsAbsent(value) {
			parts = append(parts, "\x00")
			continue
		}
		parts = append(parts, CellString(value))
	}
	return strings.Join(parts, "\x1f")
}

// DropDuplicatesByKey 按关键列去重，保留首次出现的行，返回新表和删除行数
func (t *Table) DropDuplicatesByKey(keyColumns ...string) (*Table, int) {
	result := NewTable(t.Name, t.Columns)
	seen := make(map[string]bool, len(t.Rows))
	for _, row := range t.Rows {
		fp := RowFingerprint(row, keyColumns)
		if seen[fp] {
			continue
		}
		seen[fp] = true
		result.AppendRow(row)
	}
	return result, t.RowCount() - result.RowCount()
}

// DropFullDuplicates 按整行去重，保留首次出现的行
func (t *Table) DropFullDuplicates() (*Table, int) {
	return t.DropDuplicatesByKey(t.Columns...)
}

// Filter 按条件过滤行，返回新表
func (t *Table) Filter(keep func(row map[string]interface{}) bool) *Table {
	result := NewTable(t.Name, t.Columns)
	for _, row := range t.Rows {
		if keep(row) {
			result.AppendRow(row)
		}
	}
	return result
}

// CellString 将单元格转换为字符串表示，时间统一使用标准格式
func CellString(value interface{}) string {
	if IsAbsent(value) {
		return ""
	}
	if ts, ok := value.(time.Time); ok {
		return ts.Format("2006-01-02 15:04:05")
	}
	if s, err := cast.ToStringE(value); err == nil {
		return s
	}
	return fmt.Sprintf("%v", value)
}

// CellFloat 将单元格转换为浮点数，缺失或无法转换时第二个返回值为 false
func CellFloat(value interface{}) (float64, bool) {
	if IsAbsent(value) {
		return 0, false
	}
	f, err := cast.ToFloat64E(value)
	if err != nil {
		return 0, false
	}
	return f, true
}

// CellInt 将单元格转换为整数，缺失或无法转换时第二个返回值为 false
func CellInt(value interface{}) (int64, bool) {
	if IsAbsent(value) {
		return 0, false
	}
	n, err := cast.ToInt64E(value)
	if err != nil {
		return 0, false
	}
	return n, true
}

// CellTime 将单元格转换为时间，仅接受已标准化的 time.Time 值
func CellTime(value interface{}) (time.Time, bool) {
	if IsAbsent(value) {
		return time.Time{}, false
	}
	ts, ok := value.(time.Time)
	return ts, ok
}
