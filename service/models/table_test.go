/*
 * @module service/models/table_test
 * @description 内存表格基础操作单元测试
 * @architecture 测试层 - 纯数据结构测试
 * @documentReference ai_docs/data_prep_design.md
 * @stateFlow 表构建 -> 操作执行 -> 结果验证
 * @rules 表操作必须返回新表且不影响原表
 * @dependencies testing, testify
 * @refs table.go
 */

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableCopy(t *testing.T) {
	table := NewTable("orders", []string{"order_id", "order_status"})
	table.AppendRow(map[string]interface{}{"order_id": "o1", "order_status": "delivered"})

	copied := table.Copy()
	copied.Rows[0]["order_status"] = "canceled"
	copied.Columns[0] = "changed"

	// 深拷贝：修改副本不影响原表
	assert.Equal(t, "delivered", table.Rows[0]["order_status"])
	assert.Equal(t, "order_id", table.Columns[0])
}

func TestDropDuplicatesByKey(t *testing.T) {
	table := NewTable("customers", []string{"customer_unique_id", "customer_city"})
	table.AppendRow(map[string]interface{}{"customer_unique_id": "u1", "customer_city": "campinas"})
	table.AppendRow(map[string]interface{}{"customer_unique_id": "u1", "customer_city": "santos"})
	table.AppendRow(map[string]interface{}{"customer_unique_id": "u2", "customer_city": "niterói"})

	deduped, removed := table.DropDuplicatesByKey("customer_unique_id")

	require.Equal(t, 2, deduped.RowCount())
	assert.Equal(t, 1, removed)
	// 保留首次出现的行
	assert.Equal(t, "campinas", deduped.Rows[0]["customer_city"])
	// 原表不变
	assert.Equal(t, 3, table.RowCount())
}

func TestDropFullDuplicates(t *testing.T) {
	table := NewTable("items", []string{"order_id", "price"})
	table.AppendRow(map[string]interface{}{"order_id": "o1", "price": "10"})
	table.AppendRow(map[string]interface{}{"order_id": "o1", "price": "10"})
	table.AppendRow(map[string]interface{}{"order_id": "o1", "price": "20"})

	deduped, removed := table.DropFullDuplicates()

	assert.Equal(t, 2, deduped.RowCount())
	assert.Equal(t, 1, removed)
}

// TestRowFingerprintDistinguishesAbsent 缺失值和空字符串的指纹不同
func TestRowFingerprintDistinguishesAbsent(t *testing.T) {
	withNil := RowFingerprint(map[string]interface{}{"a": nil}, []string{"a"})
	withEmpty := RowFingerprint(map[string]interface{}{"a": ""}, []string{"a"})
	assert.NotEqual(t, withNil, withEmpty)
}

func TestCellConversions(t *testing.T) {
	f, ok := CellFloat("58.90")
	require.True(t, ok)
	assert.InDelta(t, 58.90, f, 0.0001)

	_, ok = CellFloat(nil)
	assert.False(t, ok)

	_, ok = CellFloat("abc")
	assert.False(t, ok)

	n, ok := CellInt("5")
	require.True(t, ok)
	assert.Equal(t, int64(5), n)

	ts := time.Date(2017, 10, 2, 10, 56, 33, 0, time.UTC)
	assert.Equal(t, "2017-10-02 10:56:33", CellString(ts))
	assert.Equal(t, "", CellString(nil))

	got, ok := CellTime(ts)
	require.True(t, ok)
	assert.Equal(t, ts, got)
	_, ok = CellTime("2017-10-02")
	assert.False(t, ok)
}

func TestFilter(t *testing.T) {
	table := NewTable("payments", []string{"payment_value"})
	table.AppendRow(map[string]interface{}{"payment_value": "50.0"})
	table.AppendRow(map[string]interface{}{"payment_value": "-1.0"})

	filtered := table.Filter(func(row map[string]interface{}) bool {
		v, ok := CellFloat(row["payment_value"])
		return ok && v >= 0
	})

	assert.Equal(t, 1, filtered.RowCount())
	assert.Equal(t, 2, table.RowCount())
}
