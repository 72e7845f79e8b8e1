package cv

import (
	"image/color"

	"gocv.io/x/gocv"
)

// Color 标注颜色
type Color = color.RGBA

var (
	// AcceptColor 命中瞬间绘制的颜色（红）
	AcceptColor = Color{R: 255, A: 255}
	// ResultColor 最终结果绘制的颜色（绿）
	ResultColor = Color{G: 255, A: 255}
)

// RegionThickness 标注线宽
const RegionThickness = 2

// DrawRegion 在图像上绘制匹配区域
func DrawRegion(img *gocv.Mat, region *MatchRegion, c Color) {
	if img == nil || region == nil || img.Empty() {
		return
	}
	gocv.Rectangle(img, region.Rect(), c, RegionThickness)
}
