// Package vision 提供模板区域搜索功能
//
// 基本用法:
//
//	// 在截图中查找模板，并输出标注后的图像
//	region, err := vision.SearchTemplateRegion("screen.png", "button.png",
//	    vision.WithThreshold(0.8),
//	    vision.WithOutput("output.png"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if region != nil {
//	    c := region.Center()
//	    fmt.Printf("找到位置: (%d, %d)\n", c.X, c.Y)
//	}
package vision

import (
	"context"
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/zoeyai/templatematcher/internal/logger"
	"github.com/zoeyai/templatematcher/pkg/screen"
	"github.com/zoeyai/templatematcher/pkg/vision/cv"
)

// SearchTemplateRegion 在源图像中查找模板区域
// input, template: 文件路径、image.Image 或 gocv.Mat
// 未找到时返回 nil, nil
func SearchTemplateRegion(input, template ImageInput, opts ...Option) (*MatchRegion, error) {
	source, err := cv.LoadImageInput(input)
	if err != nil {
		return nil, fmt.Errorf("加载源图像失败: %w", err)
	}
	defer source.Close()

	tpl, err := cv.LoadImageInput(template)
	if err != nil {
		return nil, fmt.Errorf("加载模板图像失败: %w", err)
	}
	defer tpl.Close()

	return SearchTemplateRegionIn(source, tpl, opts...)
}

// SearchTemplateRegionIn 在已加载的源图像中查找模板区域
// 设置了输出路径时，在源图像副本上标注并写出，无论是否匹配
func SearchTemplateRegionIn(source, template gocv.Mat, opts ...Option) (*MatchRegion, error) {
	cfg := applyOptions(opts...)
	return searchIn(source, template, cfg)
}

func searchIn(source, template gocv.Mat, cfg *matchConfig) (*MatchRegion, error) {
	m := cv.NewScaleStepMatching(template, source, cfg.threshold, cfg.scaleSteps).
		WithMatcher(buildMatcher(cfg))

	var canvas gocv.Mat
	if cfg.output != "" {
		canvas = source.Clone()
		defer canvas.Close()
		m.WithCanvas(&canvas)
	}

	region, err := m.FindBestResult()
	if err != nil {
		return nil, err
	}

	if cfg.output != "" {
		if err := cv.WriteImage(cfg.output, canvas); err != nil {
			return nil, err
		}
		logger.Debug("标注图像已保存: %s", cfg.output)
	}

	return region, nil
}

// WaitForTemplateRegion 循环截图匹配直到找到或超时
// 超时时间为 0 时只尝试一次
func WaitForTemplateRegion(ctx context.Context, capture screen.CaptureFunc, template ImageInput, opts ...Option) (*MatchRegion, error) {
	cfg := applyOptions(opts...)

	tpl, err := cv.LoadImageInput(template)
	if err != nil {
		return nil, fmt.Errorf("加载模板图像失败: %w", err)
	}
	defer tpl.Close()

	startTime := time.Now()
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		source, err := capture()
		if err != nil {
			return nil, fmt.Errorf("截图失败: %w", err)
		}

		region, err := searchIn(source, tpl, cfg)
		source.Close()
		if err != nil {
			return nil, err
		}
		if region != nil {
			return region, nil
		}

		if time.Since(startTime) >= cfg.timeout {
			logger.Info("等待超时，共尝试 %d 次", attempt)
			return nil, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.interval):
		}
	}
}

// buildMatcher 构建匹配原语
func buildMatcher(cfg *matchConfig) cv.Matcher {
	if cfg.matcher != nil {
		return cfg.matcher
	}
	return cv.NewOpenCVMatcher(cfg.gray)
}
