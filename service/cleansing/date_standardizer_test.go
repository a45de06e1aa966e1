/*
 * @module service/cleansing/date_standardizer_test
 * @description 日期标准化器单元测试
 * @architecture 测试层 - 纯函数测试，无外部依赖
 * @documentReference ai_docs/data_prep_design.md
 * @stateFlow 输入值 -> 解析执行 -> 值域验证
 * @rules 标准化后值域只能是 time.Time 或 nil
 * @dependencies testing, testify, time
 * @refs date_standardizer.go
 */

package cleansing

import (
	"testing"
	"time"

	"dataprep-service/service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	testCases := []struct {
		name     string
		input    interface{}
		expected interface{}
	}{
		{
			name:     "标准日期时间",
			input:    "2017-10-02 10:56:33",
			expected: time.Date(2017, 10, 2, 10, 56, 33, 0, time.UTC),
		},
		{
			name:     "仅日期",
			input:    "2018-01-15",
			expected: time.Date(2018, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "井号占位符",
			input:    "########",
			expected: nil,
		},
		{
			name:     "更长的井号占位符",
			input:    "############",
			expected: nil,
		},
		{
			name:     "小写nan占位符",
			input:    "nan",
			expected: nil,
		},
		{
			name:     "NaN占位符",
			input:    "NaN",
			expected: nil,
		},
		{
			name:     "无法解析的文本",
			input:    "not-a-date",
			expected: nil,
		},
		{
			name:     "缺失值",
			input:    nil,
			expected: nil,
		},
		{
			name:     "空字符串",
			input:    "",
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseTimestamp(tc.input))
		})
	}
}

// TestParseTimestampPassthrough 已经是时间戳的值原样返回
func TestParseTimestampPassthrough(t *testing.T) {
	ts := time.Date(2018, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, ts, ParseTimestamp(ts))
}

func TestStandardizeDates(t *testing.T) {
	table := models.NewTable("orders", []string{"order_id", "order_purchase_timestamp"})
	table.AppendRow(map[string]interface{}{"order_id": "o1", "order_purchase_timestamp": "2017-10-02 10:56:33"})
	table.AppendRow(map[string]interface{}{"order_id": "o2", "order_purchase_timestamp": "########"})
	table.AppendRow(map[string]interface{}{"order_id": "o3", "order_purchase_timestamp": "garbage"})

	StandardizeDates(table, []string{"order_purchase_timestamp", "missing_column"})

	// 标准化后值域只有 time.Time 和 nil
	for _, row := range table.Rows {
		value := row["order_purchase_timestamp"]
		if value != nil {
			_, ok := value.(time.Time)
			require.True(t, ok, "值必须是时间戳: %v", value)
		}
	}
	assert.Equal(t, time.Date(2017, 10, 2, 10, 56, 33, 0, time.UTC), table.Rows[0]["order_purchase_timestamp"])
	assert.Nil(t, table.Rows[1]["order_purchase_timestamp"])
	assert.Nil(t, table.Rows[2]["order_purchase_timestamp"])
}
