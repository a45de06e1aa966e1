/*
 * @module service/loader/csv_loader
 * @description CSV 数据加载器，按名称到路径的映射读取数据集到内存表
 * @architecture 外部协作者 - 文件读取层，加载失败按表报告不中断整体流程
 * @documentReference ai_docs/data_prep_design.md
 * @stateFlow 文件打开 -> 编码解码 -> 表头解析 -> 行记录构建 -> 内存表输出
 * @rules 空单元格加载为缺失值 nil，文件缺失或不可读时该表视为不存在
 * @dependencies encoding/csv, golang.org/x/text/encoding/charmap, golang.org/x/text/transform
 * @refs service/models/table.go, service/pipeline
 */

package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"

	"dataprep-service/service/models"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// 输入文件编码
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin-1"
)

// CSVLoader CSV 数据加载器
type CSVLoader struct {
	encoding string
}

// NewCSVLoader 创建 CSV 加载器实例，默认按 UTF-8 读取
func NewCSVLoader() *CSVLoader {
	return &CSVLoader{encoding: EncodingUTF8}
}

// NewCSVLoaderWithEncoding 创建指定输入编码的 CSV 加载器
func NewCSVLoaderWithEncoding(encoding string) *CSVLoader {
	if encoding == "" {
		encoding = EncodingUTF8
	}
	return &CSVLoader{encoding: encoding}
}

// LoadDatasets 按名称到路径的映射加载全部数据集
// 单表加载失败只记录日志，该表在结果中不存在，加载继续
func (l *CSVLoader) LoadDatasets(paths map[string]string) map[string]*models.Table {
	tables := make(map[string]*models.Table, len(paths))
	for name, path := range paths {
		table, err := l.LoadTable(name, path)
		if err != nil {
			slog.Error("数据集加载失败", "dataset", name, "path", path, "error", err)
			continue
		}
		slog.Info("数据集加载完成", "dataset", name, "rows", table.RowCount(), "columns", table.ColumnCount())
		tables[name] = table
	}
	return tables
}

// LoadTable 加载单个 CSV 文件为内存表
func (l *CSVLoader) LoadTable(name, path string) (*models.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开文件失败: %w", err)
	}
	defer file.Close()

	var source io.Reader = file
	if l.encoding == EncodingLatin1 {
		source = transform.NewReader(file, charmap.ISO8859_1.NewDecoder())
	}

	reader := csv.NewReader(source)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}

	table := models.NewTable(name, header)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("读取数据行失败: %w", err)
		}
		row := make(map[string]interface{}, len(header))
		for i, col := range header {
			if i < len(record) && record[i] != "" {
				row[col] = record[i]
			} else {
				row[col] = nil
			}
		}
		table.AppendRow(row)
	}
	return table, nil
}
