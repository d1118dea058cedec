package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"platemap_backend/internal/app/di"
	"platemap_backend/internal/app/router"
	mapexportusecase "platemap_backend/internal/feature/mapexport/usecase"
	platehandler "platemap_backend/internal/feature/plate/transport/handler"
	plateusecase "platemap_backend/internal/feature/plate/usecase"
	"platemap_backend/internal/platform/artifact"
	"platemap_backend/internal/platform/config"
	infraredis "platemap_backend/internal/platform/redis"
)

func main() {
	// ローカル開発用の.env（本番では環境変数を直接設定）
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found. Using process environment.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("[FATAL] Invalid configuration: ", err)
	}

	ctx := context.Background()

	// Redis（任意）。未構成でも起動し、アーティファクトのダウンロードのみ無効になる
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without artifact downloads.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}
	artifacts := artifact.NewRedisStore(rdb, "plate", cfg.ArtifactTTL)

	// 外部APIクライアント（認証情報が不正な場合はここで停止）
	detector, err := di.NewFoodDetector(ctx, cfg.MaxImageWidth)
	if err != nil {
		log.Fatal("[FATAL] Failed to create Vision client: ", err)
	}
	geocoder := di.NewGeocoder()
	enricher, err := di.NewEnricher(ctx, geocoder)
	if err != nil {
		log.Fatal("[FATAL] Failed to create Gemini client: ", err)
	}

	// Usecase
	plateUC := plateusecase.NewPlateUsecase(
		detector,
		enricher,
		geocoder,
		mapexportusecase.NewMapExportUsecase(),
		artifacts,
		cfg.ScratchDir,
	)

	// Handler
	plateH := platehandler.NewPlateHandler(plateUC)

	// ルータ生成
	r := router.NewRouter(plateH)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
