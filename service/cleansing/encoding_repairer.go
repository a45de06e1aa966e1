/*
 * @module service/cleansing/encoding_repairer
 * @description 文本编码修复器，修复葡萄牙语文本中双重编码产生的乱码字符序列
 * @architecture 工具函数模式 - 无状态的标量转换
 * @documentReference ai_docs/data_prep_design.md
 * @stateFlow 输入标量 -> 有序替换 -> 输出修复后文本
 * @rules 替换必须按固定顺序执行，部分乱码序列是其他序列的子串，顺序改变会产生错误结果
 * @dependencies strings, spf13/cast
 * @refs service/cleansing/table_cleaners.go
 */

package cleansing

import (
	"strings"

	"dataprep-service/service/models"

	"github.com/spf13/cast"
)

// encodingReplacement 单条编码替换规则
type encodingReplacement struct {
	Broken   string
	Repaired string
}

// encodingReplacements 双重编码修复表，按声明顺序应用
var encodingReplacements = []encodingReplacement{
	{"Ã£", "ã"},
	{"Ã¡", "á"},
	{"Ã©", "é"},
	{"Ã­", "í"},
	{"Ã³", "ó"},
	{"Ãº", "ú"},
	{"Ã§", "ç"},
	{"Ã", "à"},
	{"Ã¢", "â"},
	{"Ãª", "ê"},
	{"Ã´", "ô"},
	{"Ã¼", "ü"},
}

// RepairTextEncoding 修复单个文本值的编码问题，缺失值原样返回
func RepairTextEncoding(value interface{}) interface{} {
	if models.IsAbsent(value) {
		return value
	}
	text := cast.ToString(value)
	for _, r := range encodingReplacements {
		text = strings.ReplaceAll(text, r.Broken, r.Repaired)
	}
	return text
}

// RepairColumnEncoding 对表中指定列的全部值执行编码修复，列不存在时不做处理
func RepairColumnEncoding(table *models.Table, column string) {
	if table == nil || !table.HasColumn(column) {
		return
	}
	for _, row := range table.Rows {
		row[column] = RepairTextEncoding(row[column])
	}
}
