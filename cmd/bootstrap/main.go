// Package main 系统初始化入口
//
// 默认执行数据库迁移与默认数据写入，-uninstall 执行不可逆的完整卸载。
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"ai-product-desc-api/internal/config"
	"ai-product-desc-api/internal/domain/entity"
	"ai-product-desc-api/internal/infrastructure/persistence/postgres"
	"ai-product-desc-api/internal/wire"
)

func main() {
	uninstall := flag.Bool("uninstall", false, "remove all tables and stored data")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	if *uninstall {
		runUninstall(ctx, cfg)
		return
	}

	runInstall(ctx, cfg)
}

func runInstall(ctx context.Context, cfg *config.Config) {
	fmt.Println("Starting system bootstrap...")

	dataLayer, cleanup, err := wire.InitializePostgresOnly(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize data layer: %v", err)
	}
	defer cleanup()

	// 1. 迁移表结构
	db := dataLayer.PgClient.DB()
	if err := db.AutoMigrate(
		&entity.Settings{},
		&entity.UsageRecord{},
		&entity.GenerationLog{},
		&entity.Product{},
		&postgres.AttributeTerm{},
	); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	fmt.Println("Schema migrated.")

	// 2. 写入默认生成设置
	settings, err := dataLayer.SettingsRepo.Get(ctx)
	if err != nil {
		log.Fatalf("failed to check settings existence: %v", err)
	}
	if settings == nil {
		if err := dataLayer.SettingsRepo.Save(ctx, entity.DefaultSettings()); err != nil {
			log.Fatalf("failed to seed default settings: %v", err)
		}
		fmt.Println("Default settings created.")
	} else {
		fmt.Println("Settings already exist, skipping.")
	}

	// 3. 写入当月用量记录
	record, err := dataLayer.UsageRepo.Get(ctx)
	if err != nil {
		log.Fatalf("failed to check usage record existence: %v", err)
	}
	if record == nil {
		record = entity.NewUsageRecord(time.Now())
		if err := dataLayer.UsageRepo.Save(ctx, record); err != nil {
			log.Fatalf("failed to seed usage record: %v", err)
		}
		fmt.Printf("Usage record created for month %s.\n", record.Month)
	} else {
		fmt.Printf("Usage record already exists for month %s.\n", record.Month)
	}

	fmt.Println("Bootstrap completed successfully.")
}

// runUninstall 不可逆卸载：清空日志、删除设置与用量、删表、清缓存
func runUninstall(ctx context.Context, cfg *config.Config) {
	fmt.Println("Starting uninstall...")

	dataLayer, cleanup, err := wire.InitializeDataLayer(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize data layer: %v", err)
	}
	defer cleanup()

	// 数据清理在同一事务中完成
	err = dataLayer.TxManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := dataLayer.LogRepo.Clear(ctx); err != nil {
			return err
		}
		if err := dataLayer.SettingsRepo.Delete(ctx); err != nil {
			return err
		}
		return dataLayer.UsageRepo.Delete(ctx)
	})
	if err != nil {
		log.Fatalf("failed to delete stored data: %v", err)
	}

	// 缓存清理失败不阻塞卸载
	if err := dataLayer.Cache.InvalidateSettings(ctx); err != nil {
		fmt.Printf("warning: failed to invalidate settings cache: %v\n", err)
	}
	if err := dataLayer.Cache.InvalidateUsage(ctx); err != nil {
		fmt.Printf("warning: failed to invalidate usage cache: %v\n", err)
	}

	db := dataLayer.PgClient.DB()
	if err := db.Migrator().DropTable(
		&entity.GenerationLog{},
		&entity.UsageRecord{},
		&entity.Settings{},
		&entity.Product{},
		&postgres.AttributeTerm{},
	); err != nil {
		log.Fatalf("failed to drop tables: %v", err)
	}

	fmt.Println("Uninstall completed.")
}
