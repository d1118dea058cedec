// Package gemini はGoogle Gemini APIを使用したトリビア生成クライアントを提供します。
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"platemap_backend/internal/feature/enrichment/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
	// FactPromptTemplate はトリビア生成のプロンプトテンプレートです。
	FactPromptTemplate = "Share one quirky, lesser-known fact about %s in a single sentence."
)

// GeminiFactClient はGoogle Gemini APIで料理のトリビアを生成します。
type GeminiFactClient struct {
	client *genai.Client
	model  string
}

// GeminiFactClientがFactClientを実装していることをコンパイル時に検証します。
var _ usecase.FactClient = (*GeminiFactClient)(nil)

// NewGeminiFactClient はADCを使用してGeminiFactClientの新しいインスタンスを生成します。
// 認証情報が不正な場合はここで失敗します（起動時チェック）。
func NewGeminiFactClient(ctx context.Context) (*GeminiFactClient, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiFactClient{client: client, model: DefaultModel}, nil
}

// FunFact は料理名からトリビアを1文生成します。
func (g *GeminiFactClient) FunFact(ctx context.Context, foodName string) (string, error) {
	prompt := fmt.Sprintf(FactPromptTemplate, foodName)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}

	fact := strings.TrimSpace(resp.Text())
	if fact == "" {
		return "", fmt.Errorf("gemini returned an empty fact for %q", foodName)
	}
	return fact, nil
}
