// Package screen 提供屏幕截图功能，截图可直接作为匹配源图像
package screen

import (
	"fmt"
	"image"

	"github.com/go-vgo/robotgo"
	"gocv.io/x/gocv"

	"github.com/zoeyai/templatematcher/pkg/vision/cv"
)

// CaptureFunc 截图函数，返回的 Mat 由调用方关闭
type CaptureFunc func() (gocv.Mat, error)

// CaptureScreen 截取全屏
func CaptureScreen() (image.Image, error) {
	img, err := robotgo.CaptureImg()
	if err != nil {
		return nil, fmt.Errorf("截屏失败: %w", err)
	}
	return img, nil
}

// CaptureDisplay 截取指定显示器
func CaptureDisplay(displayID int) (image.Image, error) {
	if n := GetDisplayCount(); displayID < 0 || displayID >= n {
		return nil, fmt.Errorf("显示器编号无效: %d (共 %d 个)", displayID, n)
	}
	x, y, w, h := robotgo.GetDisplayBounds(displayID)
	img, err := robotgo.CaptureImg(x, y, w, h)
	if err != nil {
		return nil, fmt.Errorf("截取显示器 %d 失败: %w", displayID, err)
	}
	return img, nil
}

// CaptureForMatch 截图并转换为匹配用的 gocv.Mat
// displayID < 0 表示全屏
func CaptureForMatch(displayID int) (gocv.Mat, error) {
	var img image.Image
	var err error

	if displayID < 0 {
		img, err = CaptureScreen()
	} else {
		img, err = CaptureDisplay(displayID)
	}
	if err != nil {
		return gocv.Mat{}, err
	}

	return cv.ImageToMat(img)
}

// Capturer 返回绑定显示器的截图函数
func Capturer(displayID int) CaptureFunc {
	return func() (gocv.Mat, error) {
		return CaptureForMatch(displayID)
	}
}

// GetDisplayCount 获取显示器数量
func GetDisplayCount() int {
	return robotgo.DisplaysNum()
}
