package cv

import (
	"fmt"
	"math"
	"time"

	"gocv.io/x/gocv"

	"github.com/zoeyai/templatematcher/internal/logger"
)

const (
	// DefaultThreshold 默认匹配阈值
	DefaultThreshold = 0.7
)

// DefaultScaleSteps 默认缩放比例序列（按顺序尝试）
var DefaultScaleSteps = []float64{1, 0.9, 0.8, 0.7, 0.6, 0.5}

// ScaleStepMatching 按缩放序列进行的多尺度模板匹配
// 适用场景：
//   - 模板截取自不同分辨率的设备
//   - 目标元素比模板略小
type ScaleStepMatching struct {
	imSearch   gocv.Mat
	imSource   gocv.Mat
	threshold  float64
	scaleSteps []float64
	matcher    Matcher
	canvas     *gocv.Mat
}

// NewScaleStepMatching 创建多尺度模板匹配器
// scaleSteps 按给定顺序尝试，不做排序
func NewScaleStepMatching(search, source gocv.Mat, threshold float64, scaleSteps []float64) *ScaleStepMatching {
	return &ScaleStepMatching{
		imSearch:   search,
		imSource:   source,
		threshold:  threshold,
		scaleSteps: scaleSteps,
		matcher:    NewOpenCVMatcher(false),
	}
}

// WithMatcher 替换匹配原语
func (m *ScaleStepMatching) WithMatcher(matcher Matcher) *ScaleStepMatching {
	m.matcher = matcher
	return m
}

// WithCanvas 设置标注画布，命中时在画布上绘制匹配区域
// 画布通常就是源图像本身
func (m *ScaleStepMatching) WithCanvas(canvas *gocv.Mat) *ScaleStepMatching {
	m.canvas = canvas
	return m
}

// FindBestResult 查找匹配结果
// 第一个达到阈值的缩放比例即被采用并立即停止搜索，未找到时返回 nil
func (m *ScaleStepMatching) FindBestResult() (*MatchRegion, error) {
	startTime := time.Now()

	var best *MatchRegion
	bestVal := math.Inf(-1)

	for _, scale := range m.scaleSteps {
		scaled, err := m.matcher.Resize(m.imSearch, scale)
		if err != nil {
			return nil, err
		}
		w, h := scaled.Cols(), scaled.Rows()

		val, loc, err := m.matcher.Match(m.imSource, scaled)
		scaled.Close()
		if err != nil {
			return nil, fmt.Errorf("缩放比例 %.2f 匹配失败: %w", scale, err)
		}

		logger.Debug("scale=%.2f 模板=%dx%d 置信度=%.4f 位置=(%d,%d)", scale, w, h, val, loc.X, loc.Y)

		if val >= m.threshold && val > bestVal {
			best = NewMatchRegion(loc, w, h, val, scale)
			bestVal = val

			m.draw(best, AcceptColor)
			break
		}
	}

	if best != nil {
		m.draw(best, ResultColor)
	}

	elapsed := float64(time.Since(startTime).Microseconds()) / 1000
	if best != nil {
		logger.LogEvent("TPL", true, elapsed, fmt.Sprintf("scale=%s confidence=%s", best.Scale, best.Confidence))
	} else {
		logger.Info("%-4s | -- | %6.1fms | 未找到匹配 (阈值 %.2f, %d 个缩放比例)", "TPL", elapsed, m.threshold, len(m.scaleSteps))
	}

	return best, nil
}

func (m *ScaleStepMatching) draw(region *MatchRegion, c Color) {
	if m.canvas == nil {
		return
	}
	DrawRegion(m.canvas, region, c)
}
