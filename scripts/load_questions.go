// 手动导入题库脚本
//
// 启动时题库为空会自动导入内置题库；此脚本用于追加或更新题库，
// 已存在的题目（相同主题和题干）会被跳过。
//
// 用法: go run scripts/load_questions.go [-source local -path banks/french.yaml]

package main

import (
	"context"
	"flag"
	"log"

	"quiz_backend/internal/config"
	"quiz_backend/internal/service"
	"quiz_backend/pkg/database"
	"quiz_backend/pkg/logger"
)

func main() {
	source := flag.String("source", "", "题库来源: embedded / local / minio")
	path := flag.String("path", "", "本地文件路径或 minio 对象名")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}
	if *source != "" {
		cfg.Storage.BankSource = *source
	}
	if *path != "" {
		cfg.Storage.BankPath = *path
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, true)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	bank, err := service.NewBankSource(&cfg.Storage)
	if err != nil {
		log.Fatalf("题库来源无效: %v", err)
	}

	report, err := service.NewQuestionBankService(db, bank).Load(context.Background())
	if err != nil {
		log.Fatalf("导入失败: %v", err)
	}
	log.Printf("完成！来源 %s，新增 %d，跳过 %d", report.Source, report.Created, report.Skipped)
}
