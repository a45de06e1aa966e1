package main

import (
	"flag"
	"log/slog"
	"os"

	"dataprep-service/logger"
	"dataprep-service/service/pipeline"

	"github.com/robfig/cron/v3"
)

var (
	DATA_DIR       = "data"
	OUTPUT_DIR     = "cleaned_data"
	INPUT_ENCODING = ""
	EXPORT_DRIVER  = ""
	EXPORT_DSN     = ""
	PREP_SCHEDULE  = ""
)

func init() {
	if val := os.Getenv("DATA_DIR"); val != "" {
		DATA_DIR = val
	}
	if val := os.Getenv("OUTPUT_DIR"); val != "" {
		OUTPUT_DIR = val
	}
	if val := os.Getenv("INPUT_ENCODING"); val != "" {
		INPUT_ENCODING = val
	}
	if val := os.Getenv("EXPORT_DB_DRIVER"); val != "" {
		EXPORT_DRIVER = val
	}
	if val := os.Getenv("EXPORT_DB_DSN"); val != "" {
		EXPORT_DSN = val
	}
	if val := os.Getenv("PREP_SCHEDULE"); val != "" {
		PREP_SCHEDULE = val
	}
}

func main() {
	flag.StringVar(&DATA_DIR, "data-dir", DATA_DIR, "原始CSV数据目录")
	flag.StringVar(&OUTPUT_DIR, "output-dir", OUTPUT_DIR, "清洗结果输出目录")
	flag.StringVar(&INPUT_ENCODING, "input-encoding", INPUT_ENCODING, "输入文件编码 (utf-8 或 latin-1)")
	flag.StringVar(&EXPORT_DRIVER, "export-db-driver", EXPORT_DRIVER, "数据库导出驱动 (sqlite 或 postgres)")
	flag.StringVar(&EXPORT_DSN, "export-db-dsn", EXPORT_DSN, "数据库导出连接串")
	flag.StringVar(&PREP_SCHEDULE, "schedule", PREP_SCHEDULE, "cron表达式,设置后按计划周期执行")
	flag.Parse()

	logger.InitLogger()

	// 按计划周期执行时常驻运行,否则单次执行后退出
	if PREP_SCHEDULE != "" {
		c := cron.New()
		if _, err := c.AddFunc(PREP_SCHEDULE, runOnce); err != nil {
			slog.Error("cron表达式无效", "schedule", PREP_SCHEDULE, "error", err)
			os.Exit(1)
		}
		slog.Info("进入计划执行模式", "schedule", PREP_SCHEDULE)
		runOnce()
		c.Run()
		return
	}

	if err := runPipeline(); err != nil {
		os.Exit(1)
	}
}

// runOnce 计划模式下的单次执行,失败只记录日志不退出
func runOnce() {
	if err := runPipeline(); err != nil {
		slog.Error("本次流水线执行失败", "error", err)
	}
}

// runPipeline 构建并执行一次完整的数据准备流水线
func runPipeline() error {
	p, err := pipeline.RunFullPipeline(DATA_DIR, pipeline.Options{
		OutputDir:     OUTPUT_DIR,
		InputEncoding: INPUT_ENCODING,
		ExportDriver:  EXPORT_DRIVER,
		ExportDSN:     EXPORT_DSN,
	})
	if err != nil {
		slog.Error("数据准备流水线执行失败", "run_id", p.RunID(), "error", err)
		return err
	}
	slog.Info("数据准备流水线执行完成", "run_id", p.RunID())
	return nil
}
