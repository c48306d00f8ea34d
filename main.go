// @title French Quiz API
// @version 1.0
// @description 法语词汇测验服务：注册、登录、随机抽题、评分与历史统计。

// @license.name MIT

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

//go:generate swag init -g main.go -o docs --parseInternal

import (
	"context"
	"flag"
	"log"
	"path/filepath"

	"quiz_backend/internal/app"
	"quiz_backend/internal/config"
	"quiz_backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// 命令行参数
	configDir := flag.String("config", "configs", "配置文件所在目录")
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	loadQuestions := flag.Bool("load-questions", false, "导入题库后退出，已有题目会被跳过")
	bankSource := flag.String("bank-source", "", "题库来源: embedded / local / minio，默认取配置")
	bankPath := flag.String("bank-path", "", "本地文件路径或 minio 对象名")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 设置迁移标志
	cfg.ForceMigrate = *migrate || *migrateOnly || *loadQuestions
	cfg.MigrateOnly = *migrateOnly || *loadQuestions
	cfg.LoadQuestions = *loadQuestions
	if *bankSource != "" {
		cfg.Storage.BankSource = *bankSource
	}
	if *bankPath != "" {
		cfg.Storage.BankPath = *bankPath
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer logger.Log.Sync()

	if cfg.LoadQuestions {
		report, err := application.LoadQuestions(context.Background())
		if err != nil {
			logger.Log.Fatal("Failed to load questions", zap.Error(err))
		}
		log.Printf("Loaded questions from %s: %d created, %d skipped", report.Source, report.Created, report.Skipped)
		return
	}

	// 迁移完成后直接退出
	if cfg.MigrateOnly {
		log.Println("数据库迁移完成，退出程序")
		return
	}

	application.ConfigFile = filepath.Join(*configDir, "config.yaml")
	application.Run()
}
