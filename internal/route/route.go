// Package route builds the paths the views link to. Serving them is the
// router's job.
package route

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"ignorebtc/pkg/models"

	"go.uber.org/zap"
)

func BlockPath(height int64, algo models.Algorithm) string {
	return "/block/" + strconv.FormatInt(height, 10) + "/" + algo.String()
}

func MinerPath(name string) string {
	return "/miner/" + url.PathEscape(name)
}

// Navigator is handed the path of an activated link.
type Navigator interface {
	Navigate(ctx context.Context, path string) error
}

// LogNavigator reports the route instead of following it. With BaseURL set the
// absolute explorer URL is logged as well.
type LogNavigator struct {
	Logger  *zap.Logger
	BaseURL string
}

func (n LogNavigator) Navigate(_ context.Context, path string) error {
	fields := []zap.Field{zap.String("path", path)}
	if n.BaseURL != "" {
		fields = append(fields, zap.String("url", strings.TrimRight(n.BaseURL, "/")+path))
	}
	n.Logger.Info("Navigate", fields...)
	return nil
}
