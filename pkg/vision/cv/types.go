// Package cv 提供图像匹配功能
package cv

import (
	"fmt"
	"image"
)

// Point 表示二维坐标点
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// MatchRegion 模板匹配区域
// 输出格式与命令行保持一致: tx, ty, bx, by, confidence, scale
type MatchRegion struct {
	// TX, TY 左上角坐标
	TX int `json:"tx"`
	TY int `json:"ty"`
	// BX, BY 右下角坐标（左上角 + 缩放后模板尺寸）
	BX int `json:"bx"`
	BY int `json:"by"`
	// Confidence 匹配置信度，保留两位小数
	Confidence string `json:"confidence"`
	// Scale 命中的缩放比例，保留两位小数
	Scale string `json:"scale"`
}

// NewMatchRegion 根据匹配位置和缩放后模板尺寸构建匹配区域
func NewMatchRegion(loc image.Point, w, h int, confidence, scale float64) *MatchRegion {
	return &MatchRegion{
		TX:         loc.X,
		TY:         loc.Y,
		BX:         loc.X + w,
		BY:         loc.Y + h,
		Confidence: FormatFloat(confidence),
		Scale:      FormatFloat(scale),
	}
}

// Center 返回匹配区域中心点
func (r *MatchRegion) Center() Point {
	return Point{
		X: (r.TX + r.BX) / 2,
		Y: (r.TY + r.BY) / 2,
	}
}

// Rect 转换为 image.Rectangle
func (r *MatchRegion) Rect() image.Rectangle {
	return image.Rect(r.TX, r.TY, r.BX, r.BY)
}

// Width 返回区域宽度
func (r *MatchRegion) Width() int {
	return r.BX - r.TX
}

// Height 返回区域高度
func (r *MatchRegion) Height() int {
	return r.BY - r.TY
}

// FormatFloat 格式化为两位小数
func FormatFloat(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
