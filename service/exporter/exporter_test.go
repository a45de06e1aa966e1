/*
 * @module service/exporter/exporter_test
 * @description CSV 导出器和数据库导出器单元测试
 * @architecture 测试层 - 临时目录和内存 SQLite 驱动测试
 * @documentReference ai_docs/data_prep_design.md
 * @stateFlow 测试表构建 -> 导出执行 -> 文件/数据库内容验证
 * @rules 输出目录不存在时必须自动创建，缺失值导出为空单元格或 NULL
 * @dependencies testing, testify, testutil, os
 * @refs csv_exporter.go, database_exporter.go
 */

package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dataprep-service/service/meta"
	"dataprep-service/service/models"
	"dataprep-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTables(t *testing.T) (map[string]*models.Table, *models.Table) {
	orders := testutil.NewTestTable(t, meta.DatasetOrders,
		[]string{"order_id", "order_status", "order_purchase_timestamp"},
		[]interface{}{"o1", "delivered", time.Date(2017, 10, 2, 10, 56, 33, 0, time.UTC)},
		[]interface{}{"o2", "shipped", nil},
	)
	master := testutil.NewTestTable(t, "master_dataset",
		[]string{"order_id", "order_item_total"},
		[]interface{}{"o1", 72.19},
	)
	return map[string]*models.Table{meta.DatasetOrders: orders}, master
}

func TestCSVExporter(t *testing.T) {
	tables, master := sampleTables(t)
	outputDir := filepath.Join(t.TempDir(), "nested", "cleaned_data")

	err := NewCSVExporter(outputDir).ExportDatasets(tables, master)
	require.NoError(t, err)

	// 清洗后的表和主数据集分别写出
	ordersFile := filepath.Join(outputDir, "cleaned_orders.csv")
	masterFile := filepath.Join(outputDir, "master_dataset.csv")

	ordersContent, err := os.ReadFile(ordersFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(ordersContent)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "order_id,order_status,order_purchase_timestamp", lines[0])
	assert.Equal(t, "o1,delivered,2017-10-02 10:56:33", lines[1])
	// 缺失值写为空单元格
	assert.Equal(t, "o2,shipped,", lines[2])

	_, err = os.Stat(masterFile)
	assert.NoError(t, err)
}

// TestCSVExporterWithoutMaster 主数据集为 nil 时只导出清洗后的表
func TestCSVExporterWithoutMaster(t *testing.T) {
	tables, _ := sampleTables(t)
	outputDir := t.TempDir()

	err := NewCSVExporter(outputDir).ExportDatasets(tables, nil)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(outputDir, "master_dataset.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestDatabaseExporter(t *testing.T) {
	tables, master := sampleTables(t)
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	err := NewDatabaseExporterWithDB(tdb.DB).ExportDatasets(tables, master)
	require.NoError(t, err)

	var orderCount int64
	require.NoError(t, tdb.DB.Raw(`SELECT COUNT(*) FROM "cleaned_orders"`).Scan(&orderCount).Error)
	assert.Equal(t, int64(2), orderCount)

	var masterCount int64
	require.NoError(t, tdb.DB.Raw(`SELECT COUNT(*) FROM "master_dataset"`).Scan(&masterCount).Error)
	assert.Equal(t, int64(1), masterCount)

	// 缺失值写入 NULL
	var nullCount int64
	require.NoError(t, tdb.DB.Raw(`SELECT COUNT(*) FROM "cleaned_orders" WHERE "order_purchase_timestamp" IS NULL`).Scan(&nullCount).Error)
	assert.Equal(t, int64(1), nullCount)
}

// TestDatabaseExporterRecreates 再次导出时重建目标表而不是追加
func TestDatabaseExporterRecreates(t *testing.T) {
	tables, master := sampleTables(t)
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	dbExporter := NewDatabaseExporterWithDB(tdb.DB)
	require.NoError(t, dbExporter.ExportDatasets(tables, master))
	require.NoError(t, dbExporter.ExportDatasets(tables, master))

	var count int64
	require.NoError(t, tdb.DB.Raw(`SELECT COUNT(*) FROM "cleaned_orders"`).Scan(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestNewDatabaseExporterUnknownDriver(t *testing.T) {
	_, err := NewDatabaseExporter("oracle", "dsn")
	assert.Error(t, err)
}
