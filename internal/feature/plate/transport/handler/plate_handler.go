// Package handler はplateフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"platemap_backend/internal/api"
	"platemap_backend/internal/feature/plate/domain/entity"
	"platemap_backend/internal/platform/artifact"
)

// PlateUsecase は食事画像解析のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type PlateUsecase interface {
	Analyze(ctx context.Context, imageData []byte, userPlace string) (*entity.PlateReport, error)
	AnnotatedImage(ctx context.Context, plateID string) ([]byte, error)
	MapDataset(ctx context.Context, plateID string) ([]byte, error)
}

// PlateHandler は食事画像解析のHTTPリクエストを処理します。
type PlateHandler struct {
	uc PlateUsecase
}

// NewPlateHandler はPlateHandlerの新しいインスタンスを生成します。
func NewPlateHandler(uc PlateUsecase) *PlateHandler {
	return &PlateHandler{uc: uc}
}

// Analyze は食事画像をアップロードして解析します。
//
// エンドポイント: POST /v1/plates
// Content-Type: multipart/form-data
// フィールド: image（画像ファイル、最大10MB）、location（ユーザー位置の文字列）
func (h *PlateHandler) Analyze(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		slog.Warn("画像ファイルの取得に失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "画像ファイルが必要です"})
		return
	}

	userPlace := c.PostForm("location")
	if userPlace == "" {
		slog.Warn("位置情報が未指定", "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "位置情報が必要です"})
		return
	}

	f, err := file.Open()
	if err != nil {
		slog.Error("画像ファイルのオープンに失敗", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "画像の読み込みに失敗しました"})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("画像ファイルのクローズに失敗", "error", err)
		}
	}()

	imageData, err := io.ReadAll(f)
	if err != nil {
		slog.Error("画像データの読み取りに失敗", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "画像の読み込みに失敗しました"})
		return
	}

	report, err := h.uc.Analyze(c.Request.Context(), imageData, userPlace)
	if err != nil {
		slog.Error("食事画像の解析に失敗", "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "画像の解析に失敗しました"})
		return
	}

	foods := make([]api.DetectedFoodResponse, 0, len(report.Results))
	for _, r := range report.Results {
		foods = append(foods, api.DetectedFoodResponse{
			Label:      r.Item.Label,
			Confidence: r.Item.Confidence,
			Origins:    api.NewOriginResponses(r.Origins),
			Nutrition:  api.NewNutritionResponse(r.Item.Label, r.Nutrition),
			Fact:       r.Fact,
		})
	}

	c.JSON(http.StatusOK, api.PlateResponse{
		ID:        report.ID,
		UserPlace: report.UserPlace,
		Foods:     foods,
		MapPoints: api.NewMapPointResponses(report.MapPoints),
		ImageURL:  fmt.Sprintf("/v1/plates/%s/image", report.ID),
		MapURL:    fmt.Sprintf("/v1/plates/%s/map", report.ID),
	})
}

// AnnotatedImage は注釈付き画像をダウンロードします。
//
// エンドポイント: GET /v1/plates/:id/image
func (h *PlateHandler) AnnotatedImage(c *gin.Context) {
	plateID := c.Param("id")

	data, err := h.uc.AnnotatedImage(c.Request.Context(), plateID)
	if err != nil {
		h.artifactError(c, plateID, err)
		return
	}
	c.Data(http.StatusOK, "image/jpeg", data)
}

// MapDataset は地図データセット（GeoJSON）をダウンロードします。
//
// エンドポイント: GET /v1/plates/:id/map
func (h *PlateHandler) MapDataset(c *gin.Context) {
	plateID := c.Param("id")

	data, err := h.uc.MapDataset(c.Request.Context(), plateID)
	if err != nil {
		h.artifactError(c, plateID, err)
		return
	}
	c.Data(http.StatusOK, "application/geo+json", data)
}

// artifactError はアーティファクト取得エラーをHTTPステータスへ変換します。
func (h *PlateHandler) artifactError(c *gin.Context, plateID string, err error) {
	switch {
	case errors.Is(err, artifact.ErrNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "指定された解析結果が見つかりません"})
	case errors.Is(err, artifact.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: "解析結果の保存機能が無効です"})
	default:
		slog.Error("アーティファクトの取得に失敗", "error", err, "plate_id", plateID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "解析結果の取得に失敗しました"})
	}
}
