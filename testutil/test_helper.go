/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数
 * @architecture 测试基础设施 - 提供测试通用工具和数据工厂
 * @documentReference ai_docs/data_prep_design.md
 * @stateFlow 测试环境初始化 -> 测试数据创建 -> 测试执行 -> 清理资源
 * @rules 提供可重用的测试工具，确保测试环境的一致性
 * @dependencies gorm, sqlite, testify
 * @refs service/models
 */

package testutil

import (
	"fmt"
	"testing"

	"dataprep-service/service/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB 测试数据库配置
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB 创建内存 SQLite 测试数据库
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}
	return &TestDB{DB: db}
}

// Close 关闭测试数据库连接
func (tdb *TestDB) Close() {
	sqlDB, err := tdb.DB.DB()
	if err == nil {
		sqlDB.Close()
	}
}

// NewTestTable 按列名和行值字面量构建测试用内存表
// 每行按列顺序给值，长度不足的位置填缺失值
func NewTestTable(t *testing.T, name string, columns []string, rows ...[]interface{}) *models.Table {
	t.Helper()
	table := models.NewTable(name, columns)
	for _, values := range rows {
		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if i < len(values) {
				row[col] = values[i]
			} else {
				row[col] = nil
			}
		}
		table.AppendRow(row)
	}
	return table
}

// ColumnValues 提取表中某列的全部值，便于断言
func ColumnValues(table *models.Table, column string) []interface{} {
	values := make([]interface{}, 0, table.RowCount())
	for _, row := range table.Rows {
		values = append(values, row[column])
	}
	return values
}
