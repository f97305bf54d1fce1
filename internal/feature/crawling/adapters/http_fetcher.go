package adapters

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/net/html/charset"

	"invest_backend/internal/feature/crawling/usecase"
)

// HTTPFetcher は net/http で URL を取得する Fetcher です。
type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
}

var _ usecase.Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher は本文を usecase.MaxBodyBytes までに制限する Fetcher を生成します。
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{client: client, maxBytes: usecase.MaxBodyBytes}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*usecase.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	page := &usecase.Page{StatusCode: res.StatusCode, ContentType: res.Header.Get("Content-Type")}
	if res.StatusCode >= 400 {
		return page, nil
	}

	// EUC-KR などは Content-Type と <meta charset> から判定して UTF-8 に変換する
	r, err := charset.NewReader(res.Body, page.ContentType)
	if errors.Is(err, io.EOF) {
		return page, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	body, err := io.ReadAll(io.LimitReader(r, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	// 上限で切れた末尾の文字と不正なバイト列は落とす（text 列は UTF-8 のみ）
	page.Body = strings.ToValidUTF8(string(body), "")
	return page, nil
}
