/*
 * @module service/exporter/database_exporter
 * @description 数据库导出器，将清洗后的表和主数据集写入 SQLite 或 PostgreSQL
 * @architecture 适配器模式 - 按驱动选择数据库方言，动态建表后批量写入
 * @documentReference ai_docs/data_prep_design.md
 * @stateFlow 连接建立 -> 目标表重建 -> 批量插入 -> 结果统计
 * @rules 每次导出重建目标表，列类型按表内容推断为 TEXT/REAL/TIMESTAMP
 * @dependencies gorm.io/gorm, gorm.io/driver/sqlite, gorm.io/driver/postgres
 * @refs service/models/table.go, service/pipeline
 */

package exporter

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dataprep-service/service/meta"
	"dataprep-service/service/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 支持的数据库驱动
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// insertBatchSize 单条 INSERT 语句的最大行数
const insertBatchSize = 500

// DatabaseExporter 数据库导出器
type DatabaseExporter struct {
	db *gorm.DB
}

// NewDatabaseExporter 按驱动和连接串创建数据库导出器
func NewDatabaseExporter(driver, dsn string) (*DatabaseExporter, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("连接导出数据库失败: %w", err)
	}
	return &DatabaseExporter{db: db}, nil
}

// NewDatabaseExporterWithDB 使用已有连接创建数据库导出器，测试使用
func NewDatabaseExporterWithDB(db *gorm.DB) *DatabaseExporter {
	return &DatabaseExporter{db: db}
}

// ExportDatasets 将全部清洗后的表和主数据集写入数据库
func (e *DatabaseExporter) ExportDatasets(tables map[string]*models.Table, master *models.Table) error {
	for _, name := range meta.DatasetNames {
		table := tables[name]
		if table == nil {
			continue
		}
		if err := e.exportTable(fmt.Sprintf("cleaned_%s", name), table); err != nil {
			return fmt.Errorf("写入数据集 %s 失败: %w", name, err)
		}
	}

	if master != nil {
		if err := e.exportTable("master_dataset", master); err != nil {
			return fmt.Errorf("写入主数据集失败: %w", err)
		}
	}
	return nil
}

// exportTable 重建目标表并批量写入全部行
func (e *DatabaseExporter) exportTable(tableName string, table *models.Table) error {
	if err := e.recreateTable(tableName, table); err != nil {
		return err
	}

	for start := 0; start < len(table.Rows); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(table.Rows) {
			end = len(table.Rows)
		}
		if err := e.insertRows(tableName, table, table.Rows[start:end]); err != nil {
			return err
		}
	}

	slog.Info("数据库导出完成", "table", tableName, "rows", table.RowCount())
	return nil
}

// recreateTable 删除并重建目标表，列类型按内容推断
func (e *DatabaseExporter) recreateTable(tableName string, table *models.Table) error {
	if result := e.db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s`, quoteIdent(tableName))); result.Error != nil {
		return fmt.Errorf("删除旧表失败: %w", result.Error)
	}

	defs := make([]string, 0, len(table.Columns))
	for _, col := range table.Columns {
		defs = append(defs, fmt.Sprintf("%s %s", quoteIdent(col), e.columnType(table, col)))
	}
	ddl := fmt.Sprintf(`CREATE TABLE %s (%s)`, quoteIdent(tableName), strings.Join(defs, ", "))
	if result := e.db.Exec(ddl); result.Error != nil {
		return fmt.Errorf("创建表失败: %w", result.Error)
	}
	return nil
}

// insertRows 构建多值 INSERT 语句批量写入
func (e *DatabaseExporter) insertRows(tableName string, table *models.Table, rows []map[string]interface{}) error {
	if len(rows) == 0 {
		return nil
	}

	quoted := make([]string, 0, len(table.Columns))
	for _, col := range table.Columns {
		quoted = append(quoted, quoteIdent(col))
	}

	var placeholders []string
	var values []interface{}
	rowHolder := "(" + strings.TrimSuffix(strings.Repeat("?,", len(table.Columns)), ",") + ")"
	for _, row := range rows {
		placeholders = append(placeholders, rowHolder)
		for _, col := range table.Columns {
			values = append(values, exportValue(row[col]))
		}
	}

	sql := fmt.Sprintf(`INSERT INTO %s (%s) VALUES %s`,
		quoteIdent(tableName), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
	if result := e.db.Exec(sql, values...); result.Error != nil {
		return fmt.Errorf("插入数据失败: %w", result.Error)
	}
	return nil
}

// columnType 按列内容推断数据库列类型
func (e *DatabaseExporter) columnType(table *models.Table, col string) string {
	for _, row := range table.Rows {
		value := row[col]
		if models.IsAbsent(value) {
			continue
		}
		switch value.(type) {
		case time.Time:
			return "TIMESTAMP"
		case float64, float32:
			return "REAL"
		case int, int32, int64:
			return "INTEGER"
		default:
			return "TEXT"
		}
	}
	return "TEXT"
}

// exportValue 将单元格转换为数据库可写入的值，缺失值写入 NULL
func exportValue(value interface{}) interface{} {
	if models.IsAbsent(value) {
		return nil
	}
	if ts, ok := value.(time.Time); ok {
		return ts
	}
	return value
}

// quoteIdent 为标识符加双引号，防止列名与保留字冲突
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, ``) + `"`
}
