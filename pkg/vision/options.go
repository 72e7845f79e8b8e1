package vision

import (
	"time"

	"github.com/zoeyai/templatematcher/pkg/vision/cv"
)

// Options 全局配置选项
type Options struct {
	Threshold  float64       // 匹配阈值，默认 0.7
	ScaleSteps []float64     // 缩放序列，默认 1 ~ 0.5
	Gray       bool          // 是否灰度匹配
	Timeout    time.Duration // 屏幕匹配的等待时间，0 表示只尝试一次
	Interval   time.Duration // 屏幕匹配的重试间隔
}

// DefaultOptions 默认配置
var DefaultOptions = Options{
	Threshold:  cv.DefaultThreshold,
	ScaleSteps: cv.DefaultScaleSteps,
	Gray:       false,
	Timeout:    0,
	Interval:   500 * time.Millisecond,
}

// globalOptions 全局配置实例
var globalOptions = DefaultOptions

// GetOptions 获取当前全局配置
func GetOptions() *Options {
	return &globalOptions
}

// SetOptions 设置全局配置
func SetOptions(opts Options) {
	globalOptions = opts
}

// ResetOptions 重置为默认配置
func ResetOptions() {
	globalOptions = DefaultOptions
}

// Option 配置选项函数类型
type Option func(*matchConfig)

// matchConfig 匹配时的临时配置
type matchConfig struct {
	threshold  float64
	scaleSteps []float64
	output     string
	gray       bool
	timeout    time.Duration
	interval   time.Duration
	matcher    cv.Matcher
}

// defaultMatchConfig 默认匹配配置
func defaultMatchConfig() *matchConfig {
	return &matchConfig{
		threshold:  globalOptions.Threshold,
		scaleSteps: globalOptions.ScaleSteps,
		gray:       globalOptions.Gray,
		timeout:    globalOptions.Timeout,
		interval:   globalOptions.Interval,
	}
}

func applyOptions(opts ...Option) *matchConfig {
	cfg := defaultMatchConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithThreshold 设置匹配阈值
func WithThreshold(threshold float64) Option {
	return func(c *matchConfig) {
		c.threshold = threshold
	}
}

// WithScaleSteps 设置缩放序列，按给定顺序尝试
func WithScaleSteps(steps ...float64) Option {
	return func(c *matchConfig) {
		c.scaleSteps = steps
	}
}

// WithOutput 设置标注图像输出路径
// 设置后无论是否匹配都会写出图像
func WithOutput(path string) Option {
	return func(c *matchConfig) {
		c.output = path
	}
}

// WithGray 设置是否灰度匹配
func WithGray(gray bool) Option {
	return func(c *matchConfig) {
		c.gray = gray
	}
}

// WithTimeout 设置屏幕匹配的等待时间
func WithTimeout(timeout time.Duration) Option {
	return func(c *matchConfig) {
		c.timeout = timeout
	}
}

// WithInterval 设置屏幕匹配的重试间隔
func WithInterval(interval time.Duration) Option {
	return func(c *matchConfig) {
		c.interval = interval
	}
}

// WithMatcher 替换匹配原语
func WithMatcher(matcher cv.Matcher) Option {
	return func(c *matchConfig) {
		c.matcher = matcher
	}
}
