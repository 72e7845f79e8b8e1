// Package vision 提供模板区域搜索功能
package vision

import (
	"github.com/zoeyai/templatematcher/pkg/vision/cv"
)

// Point 二维坐标点
type Point = cv.Point

// MatchRegion 模板匹配区域
type MatchRegion = cv.MatchRegion

// ImageInput 支持的图像输入类型
// 可以是文件路径 (string)、image.Image 或 gocv.Mat
type ImageInput interface{}
