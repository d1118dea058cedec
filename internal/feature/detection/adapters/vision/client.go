// Package vision はGoogle Cloud Vision APIを使用した物体検出クライアントを提供します。
package vision

import (
	"context"
	"fmt"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"platemap_backend/internal/feature/detection/domain/entity"
	"platemap_backend/internal/feature/detection/usecase"
)

// VisionObjectLocalizer はGoogle Cloud Vision APIで画像内の物体を検出します。
type VisionObjectLocalizer struct {
	client *gvision.ImageAnnotatorClient
}

// VisionObjectLocalizerがObjectLocalizerを実装していることをコンパイル時に検証します。
var _ usecase.ObjectLocalizer = (*VisionObjectLocalizer)(nil)

// NewVisionObjectLocalizer はADCを使用してVisionObjectLocalizerの新しいインスタンスを生成します。
// 認証情報が不正な場合はここで失敗します（起動時チェック）。
func NewVisionObjectLocalizer(ctx context.Context) (*VisionObjectLocalizer, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &VisionObjectLocalizer{client: client}, nil
}

// Close はVision APIクライアントを解放します。
func (v *VisionObjectLocalizer) Close() error {
	return v.client.Close()
}

// LocalizeObjects は画像バイト列から物体を検出し、正規化境界ボックス付きで返します。
func (v *VisionObjectLocalizer) LocalizeObjects(ctx context.Context, imageData []byte) ([]entity.LocalizedObject, error) {
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: imageData},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_OBJECT_LOCALIZATION},
				},
			},
		},
	}

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("vision API request failed: %w", err)
	}

	if len(resp.Responses) == 0 {
		return nil, nil
	}
	if resp.Responses[0].Error != nil {
		return nil, fmt.Errorf("vision API error: %s", resp.Responses[0].Error.Message)
	}

	annotations := resp.Responses[0].LocalizedObjectAnnotations
	objects := make([]entity.LocalizedObject, 0, len(annotations))
	for _, a := range annotations {
		verts := a.GetBoundingPoly().GetNormalizedVertices()
		if len(verts) < 4 {
			// 4頂点未満のボックスは矩形として扱えない
			continue
		}
		obj := entity.LocalizedObject{
			Label:      a.Name,
			Confidence: a.Score,
		}
		for i := 0; i < 4; i++ {
			obj.Vertices[i] = entity.NormalizedVertex{X: verts[i].GetX(), Y: verts[i].GetY()}
		}
		objects = append(objects, obj)
	}
	return objects, nil
}
