// Package vision はGoogle Cloud Vision APIを使ったKYC書類のOCRクライアントを提供します。
package vision

import (
	"context"
	"fmt"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"

	"invest_backend/internal/feature/clients/usecase"
)

// annotator は ImageAnnotatorClient のうち利用するメソッドだけを切り出したものです。
type annotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error)
}

// DocumentReader は DOCUMENT_TEXT_DETECTION で書類画像の文字を読み取ります。
type DocumentReader struct {
	client annotator
	closer func() error
}

var _ usecase.DocumentReader = (*DocumentReader)(nil)

// NewDocumentReader はADCを使ってクライアントを生成します。
func NewDocumentReader(ctx context.Context) (*DocumentReader, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &DocumentReader{client: client, closer: client.Close}, nil
}

// Close はクライアントを解放します。
func (r *DocumentReader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}

// ReadText は画像中の全文テキストを返します。文字が無い場合は空文字列です。
func (r *DocumentReader) ReadText(ctx context.Context, image []byte) (string, error) {
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image:    &visionpb.Image{Content: image},
				Features: []*visionpb.Feature{{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION}},
			},
		},
	}

	resp, err := r.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return "", fmt.Errorf("vision API request failed: %w", err)
	}
	if len(resp.GetResponses()) == 0 {
		return "", nil
	}
	first := resp.GetResponses()[0]
	if first.GetError() != nil {
		return "", fmt.Errorf("vision API error: %s", first.GetError().GetMessage())
	}
	if doc := first.GetFullTextAnnotation(); doc != nil {
		return doc.GetText(), nil
	}
	// FullTextAnnotation が無い場合は先頭の TextAnnotation（全文）を使う
	if anns := first.GetTextAnnotations(); len(anns) > 0 {
		return anns[0].GetDescription(), nil
	}
	return "", nil
}
