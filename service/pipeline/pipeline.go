/*
 * @module service/pipeline/pipeline
 * @description 数据准备流水线编排器，串联加载、质量评估、分表清洗、主数据集构建和导出
 * @architecture 管道模式 - 显式表集合上下文对象顺序流转，单线程同步执行
 * @documentReference ai_docs/data_prep_design.md
 * @stateFlow 加载 -> 质量评估 -> 分表清洗 -> 主数据集构建 -> 导出 -> 运行摘要
 * @rules 质量评估必须在清洗之前执行；订单表缺失只影响主数据集构建，清洗后的表仍然导出
 * @dependencies log/slog, path/filepath, github.com/google/uuid
 * @refs service/loader, service/data_quality, service/cleansing, service/master, service/exporter
 */

package pipeline

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"dataprep-service/service/cleansing"
	"dataprep-service/service/data_quality"
	"dataprep-service/service/exporter"
	"dataprep-service/service/loader"
	"dataprep-service/service/master"
	"dataprep-service/service/meta"
	"dataprep-service/service/models"

	"github.com/google/uuid"
)

// Options 流水线运行配置
type Options struct {
	OutputDir     string // 导出目录
	InputEncoding string // 输入文件编码，空值按 UTF-8 处理
	ExportDriver  string // 数据库导出驱动，空值关闭数据库导出
	ExportDSN     string // 数据库导出连接串
}

// PrepPipeline 数据准备流水线
// tables 是贯穿各阶段的显式表集合上下文，清洗阶段用清洗后的新表替换对应条目
type PrepPipeline struct {
	runID    string
	options  Options
	loader   *loader.CSVLoader
	assessor *data_quality.Assessor
	cleaner  *cleansing.TableCleaner
	builder  *master.Builder

	tables map[string]*models.Table
	master *models.Table
	report *models.QualityReport
}

// NewPrepPipeline 创建数据准备流水线实例
func NewPrepPipeline(options Options) *PrepPipeline {
	return &PrepPipeline{
		runID:    uuid.New().String(),
		options:  options,
		loader:   loader.NewCSVLoaderWithEncoding(options.InputEncoding),
		assessor: data_quality.NewAssessor(),
		cleaner:  cleansing.NewTableCleaner(),
		builder:  master.NewBuilder(),
		tables:   make(map[string]*models.Table),
	}
}

// DatasetPaths 根据数据目录构建数据集名称到文件路径的映射
func DatasetPaths(dataDir string) map[string]string {
	paths := make(map[string]string, len(meta.DefaultDatasetFiles))
	for name, file := range meta.DefaultDatasetFiles {
		paths[name] = filepath.Join(dataDir, file)
	}
	return paths
}

// RunFullPipeline 从数据目录执行一次完整流水线，返回执行后的流水线实例
func RunFullPipeline(dataDir string, options Options) (*PrepPipeline, error) {
	p := NewPrepPipeline(options)
	if err := p.Run(DatasetPaths(dataDir)); err != nil {
		return p, err
	}
	return p, nil
}

// Run 执行完整流水线
func (p *PrepPipeline) Run(paths map[string]string) error {
	slog.Info("数据准备流水线启动", "run_id", p.runID, "datasets", len(paths))

	p.LoadDatasets(paths)
	p.AssessDataQuality()
	p.CleanDatasets()

	if err := p.BuildMasterDataset(); err != nil {
		slog.Error("主数据集构建失败", "run_id", p.runID, "error", err)
	}

	if err := p.ExportDatasets(); err != nil {
		return fmt.Errorf("导出失败: %w", err)
	}

	p.logSummary()
	return nil
}

// LoadDatasets 加载全部数据集，缺失文件按表报告
func (p *PrepPipeline) LoadDatasets(paths map[string]string) {
	p.tables = p.loader.LoadDatasets(paths)
}

// AssessDataQuality 在清洗之前对已加载的表执行只读质量评估
func (p *PrepPipeline) AssessDataQuality() {
	p.report = p.assessor.Assess(p.tables)
}

// CleanDatasets 按固定顺序执行分表清洗，清洗后的表替换上下文中的原表
func (p *PrepPipeline) CleanDatasets() {
	if geo := p.tables[meta.DatasetGeolocation]; geo != nil {
		p.tables[meta.DatasetGeolocation] = p.cleaner.CleanGeolocation(geo)
	}
	if orders := p.tables[meta.DatasetOrders]; orders != nil {
		p.tables[meta.DatasetOrders] = p.cleaner.CleanOrders(orders)
	}
	if items := p.tables[meta.DatasetOrderItems]; items != nil {
		p.tables[meta.DatasetOrderItems] = p.cleaner.CleanOrderItems(items)
	}
	if customers := p.tables[meta.DatasetCustomers]; customers != nil {
		p.tables[meta.DatasetCustomers] = p.cleaner.CleanCustomers(customers)
	}
	if sellers := p.tables[meta.DatasetSellers]; sellers != nil {
		p.tables[meta.DatasetSellers] = p.cleaner.CleanSellers(sellers)
	}
	if products := p.tables[meta.DatasetProducts]; products != nil {
		p.tables[meta.DatasetProducts] = p.cleaner.CleanProducts(products, p.tables[meta.DatasetProductTranslation])
	}
	if payments := p.tables[meta.DatasetPayments]; payments != nil {
		p.tables[meta.DatasetPayments] = p.cleaner.CleanPayments(payments)
	}
	if reviews := p.tables[meta.DatasetReviews]; reviews != nil {
		p.tables[meta.DatasetReviews] = p.cleaner.CleanReviews(reviews)
	}
}

// BuildMasterDataset 构建主数据集，订单表缺失时返回错误但不影响已清洗的表
func (p *PrepPipeline) BuildMasterDataset() error {
	built, err := p.builder.Build(p.tables)
	if err != nil {
		p.master = nil
		return err
	}
	p.master = built
	return nil
}

// ExportDatasets 导出清洗后的表和主数据集
func (p *PrepPipeline) ExportDatasets() error {
	csvExporter := exporter.NewCSVExporter(p.options.OutputDir)
	if err := csvExporter.ExportDatasets(p.tables, p.master); err != nil {
		return err
	}

	if p.options.ExportDriver != "" && p.options.ExportDSN != "" {
		dbExporter, err := exporter.NewDatabaseExporter(p.options.ExportDriver, p.options.ExportDSN)
		if err != nil {
			return err
		}
		if err := dbExporter.ExportDatasets(p.tables, p.master); err != nil {
			return err
		}
	}
	return nil
}

// logSummary 输出最终运行摘要
func (p *PrepPipeline) logSummary() {
	for _, name := range meta.DatasetNames {
		if table := p.tables[name]; table != nil {
			slog.Info("运行摘要", "dataset", name, "rows", table.RowCount(), "columns", table.ColumnCount())
		}
	}
	if p.master != nil {
		slog.Info("运行摘要", "dataset", master.MasterDatasetName, "rows", p.master.RowCount(), "columns", p.master.ColumnCount())
	}
}

// Tables 返回当前表集合
func (p *PrepPipeline) Tables() map[string]*models.Table {
	return p.tables
}

// MasterDataset 返回构建完成的主数据集，未构建时为 nil
func (p *PrepPipeline) MasterDataset() *models.Table {
	return p.master
}

// QualityReport 返回质量评估报告，未评估时为 nil
func (p *PrepPipeline) QualityReport() *models.QualityReport {
	return p.report
}

// RunID 返回本次运行的唯一标识
func (p *PrepPipeline) RunID() string {
	return p.runID
}
