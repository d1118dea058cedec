package router

import (
	platehandler "platemap_backend/internal/feature/plate/transport/handler"
	"platemap_backend/internal/platform/http/handler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter はアプリケーションの全ルートを登録したgin.Engineを生成します。
func NewRouter(plate *platehandler.PlateHandler) *gin.Engine {
	r := gin.Default()

	// フロントエンドからのアクセスを許可
	r.Use(cors.Default())

	// 導通確認用
	r.GET("/healthz", handler.Health)

	v1 := r.Group("/v1")
	{
		// 食事画像の解析
		v1.POST("/plates", plate.Analyze)
		// 注釈付き画像のダウンロード
		v1.GET("/plates/:id/image", plate.AnnotatedImage)
		// 地図データセット（GeoJSON）のダウンロード
		v1.GET("/plates/:id/map", plate.MapDataset)
	}

	return r
}
