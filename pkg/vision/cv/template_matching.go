package cv

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Matcher 单尺度匹配原语
// 缩放和相关性计算都交给底层图像库完成
type Matcher interface {
	// Resize 按比例缩放模板（宽高同比例）
	Resize(template gocv.Mat, scale float64) (gocv.Mat, error)
	// Match 在源图像中匹配模板，返回最大相关系数及其左上角位置
	Match(source, template gocv.Mat) (float64, image.Point, error)
}

// OpenCVMatcher 使用 OpenCV 实现的匹配原语
type OpenCVMatcher struct {
	// Interpolation 缩放插值方式，默认线性插值
	Interpolation gocv.InterpolationFlags
	// Gray 是否先转换为灰度图再匹配
	Gray bool
}

// NewOpenCVMatcher 创建 OpenCV 匹配原语
func NewOpenCVMatcher(gray bool) *OpenCVMatcher {
	return &OpenCVMatcher{
		Interpolation: gocv.InterpolationLinear,
		Gray:          gray,
	}
}

// Resize 按比例缩放模板
// 目标尺寸由 OpenCV 根据 fx/fy 计算
func (m *OpenCVMatcher) Resize(template gocv.Mat, scale float64) (gocv.Mat, error) {
	if scale <= 0 {
		return gocv.Mat{}, fmt.Errorf("无效的缩放比例: %v", scale)
	}
	dst := gocv.NewMat()
	gocv.Resize(template, &dst, image.Point{}, scale, scale, m.Interpolation)
	if dst.Empty() {
		dst.Close()
		return gocv.Mat{}, fmt.Errorf("缩放模板失败: scale=%.2f", scale)
	}
	return dst, nil
}

// Match 执行 TM_CCOEFF_NORMED 模板匹配
func (m *OpenCVMatcher) Match(source, template gocv.Mat) (float64, image.Point, error) {
	if err := checkSourceLargerThanSearch(source, template); err != nil {
		return 0, image.Point{}, err
	}

	src, tpl := source, template
	if m.Gray {
		src = ToGray(source)
		tpl = ToGray(template)
		defer src.Close()
		defer tpl.Close()
	}

	result := gocv.NewMat()
	defer result.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	gocv.MatchTemplate(src, tpl, &result, gocv.TmCcoeffNormed, mask)
	if result.Empty() {
		return 0, image.Point{}, fmt.Errorf("模板匹配失败")
	}

	_, maxVal, _, maxLoc := gocv.MinMaxLoc(result)
	return float64(maxVal), maxLoc, nil
}

// checkSourceLargerThanSearch 检查源图像是否大于搜索图像
func checkSourceLargerThanSearch(source, search gocv.Mat) error {
	if source.Rows() < search.Rows() || source.Cols() < search.Cols() {
		return &ImageSizeError{
			SourceSize: [2]int{source.Cols(), source.Rows()},
			SearchSize: [2]int{search.Cols(), search.Rows()},
		}
	}
	return nil
}

// ImageSizeError 图像尺寸错误
type ImageSizeError struct {
	SourceSize [2]int
	SearchSize [2]int
}

func (e *ImageSizeError) Error() string {
	return fmt.Sprintf("搜索图像尺寸大于源图像: 模板 %dx%d, 源图像 %dx%d",
		e.SearchSize[0], e.SearchSize[1], e.SourceSize[0], e.SourceSize[1])
}
