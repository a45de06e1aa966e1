/*
 * @module service/cleansing/encoding_repairer_test
 * @description 文本编码修复器单元测试
 * @architecture 测试层 - 纯函数测试，无外部依赖
 * @documentReference ai_docs/data_prep_design.md
 * @stateFlow 输入标量 -> 修复执行 -> 结果验证
 * @rules 验证替换顺序、不动点性质和缺失值透传
 * @dependencies testing, testify
 * @refs encoding_repairer.go
 */

package cleansing

import (
	"testing"

	"dataprep-service/service/models"

	"github.com/stretchr/testify/assert"
)

func TestRepairTextEncoding(t *testing.T) {
	testCases := []struct {
		name     string
		input    interface{}
		expected interface{}
	}{
		{
			name:     "双重编码的城市名",
			input:    "sÃ£o paulo",
			expected: "são paulo",
		},
		{
			name:     "多个乱码序列",
			input:    "SÃ£o JosÃ© dos Campos",
			expected: "São José dos Campos",
		},
		{
			name:     "已经正确的文本保持不变",
			input:    "ação",
			expected: "ação",
		},
		{
			name:     "波浪线a和软音c",
			input:    "ConceiÃ§Ã£o",
			expected: "Conceição",
		},
		{
			name:     "无乱码的普通文本",
			input:    "rio de janeiro",
			expected: "rio de janeiro",
		},
		{
			name:     "缺失值原样返回",
			input:    nil,
			expected: nil,
		},
		{
			name:     "空字符串",
			input:    "",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, RepairTextEncoding(tc.input))
		})
	}
}

// TestRepairTextEncodingFixedPoint 修复后的文本再次修复不应变化
func TestRepairTextEncodingFixedPoint(t *testing.T) {
	inputs := []string{"sÃ£o paulo", "ConceiÃ§Ã£o", "vitÃ³ria", "ação", "brasília"}
	for _, input := range inputs {
		repaired := RepairTextEncoding(input)
		assert.Equal(t, repaired, RepairTextEncoding(repaired), "输入: %s", input)
	}
}

func TestRepairColumnEncoding(t *testing.T) {
	table := models.NewTable("customers", []string{"customer_city"})
	table.AppendRow(map[string]interface{}{"customer_city": "sÃ£o paulo"})
	table.AppendRow(map[string]interface{}{"customer_city": nil})

	RepairColumnEncoding(table, "customer_city")

	assert.Equal(t, "são paulo", table.Rows[0]["customer_city"])
	assert.Nil(t, table.Rows[1]["customer_city"])
}

// TestRepairColumnEncodingMissingColumn 列不存在时不做任何处理
func TestRepairColumnEncodingMissingColumn(t *testing.T) {
	table := models.NewTable("sellers", []string{"seller_id"})
	table.AppendRow(map[string]interface{}{"seller_id": "s1"})

	RepairColumnEncoding(table, "seller_city")

	assert.Equal(t, "s1", table.Rows[0]["seller_id"])
}
