package cv

import (
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"
)

// newNoiseImage 生成固定种子的随机噪声图像，保证模板在源图中位置唯一
func newNoiseImage(w, h int, seed int64) *image.RGBA {
	r := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(r.Intn(256)),
				G: uint8(r.Intn(256)),
				B: uint8(r.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}

// cropImage 复制图像的一个区域
func cropImage(src *image.RGBA, rect image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for y := 0; y < rect.Dy(); y++ {
		for x := 0; x < rect.Dx(); x++ {
			dst.Set(x, y, src.At(rect.Min.X+x, rect.Min.Y+y))
		}
	}
	return dst
}

// writePNG 写入 PNG 测试文件
func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("创建文件失败: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("编码 PNG 失败: %v", err)
	}
	return path
}

// mustMat 将 image.Image 转换为 Mat
func mustMat(t *testing.T, img image.Image) gocv.Mat {
	t.Helper()
	mat, err := ImageToMat(img)
	if err != nil {
		t.Fatalf("转换 Mat 失败: %v", err)
	}
	return mat
}

func TestReadImage(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "noise.png", newNoiseImage(40, 30, 1))

	mat, err := ReadImage(path)
	if err != nil {
		t.Fatalf("读取图像失败: %v", err)
	}
	defer mat.Close()

	w, h := GetResolution(mat)
	if w != 40 || h != 30 {
		t.Errorf("分辨率错误: got %dx%d, want 40x30", w, h)
	}
	if mat.Channels() != 3 {
		t.Errorf("通道数错误: got %d, want 3", mat.Channels())
	}
}

func TestReadImageMissing(t *testing.T) {
	_, err := ReadImage(filepath.Join(t.TempDir(), "missing.png"))
	if err == nil {
		t.Fatal("读取不存在的文件应返回错误")
	}
}

func TestWriteImageCreatesDir(t *testing.T) {
	mat := mustMat(t, newNoiseImage(8, 8, 2))
	defer mat.Close()

	path := filepath.Join(t.TempDir(), "nested", "out.png")
	if err := WriteImage(path, mat); err != nil {
		t.Fatalf("保存图像失败: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("输出文件不存在: %v", err)
	}
}

func TestToGray(t *testing.T) {
	mat := mustMat(t, newNoiseImage(8, 8, 3))
	defer mat.Close()

	gray := ToGray(mat)
	defer gray.Close()
	if gray.Channels() != 1 {
		t.Errorf("灰度图通道数错误: got %d", gray.Channels())
	}

	again := ToGray(gray)
	defer again.Close()
	if again.Channels() != 1 {
		t.Errorf("灰度图再次转换后通道数错误: got %d", again.Channels())
	}
}

func TestLoadImageInput(t *testing.T) {
	img := newNoiseImage(12, 10, 4)

	mat, err := LoadImageInput(img)
	if err != nil {
		t.Fatalf("加载 image.Image 失败: %v", err)
	}
	defer mat.Close()

	clone, err := LoadImageInput(&mat)
	if err != nil {
		t.Fatalf("加载 *gocv.Mat 失败: %v", err)
	}
	defer clone.Close()
	if clone.Cols() != 12 || clone.Rows() != 10 {
		t.Errorf("尺寸错误: got %dx%d", clone.Cols(), clone.Rows())
	}

	if _, err := LoadImageInput(42); err == nil {
		t.Error("不支持的类型应返回错误")
	}
}

func TestMatchRegion(t *testing.T) {
	r := NewMatchRegion(image.Pt(10, 20), 100, 50, 0.91234, 0.9)

	if r.TX != 10 || r.TY != 20 || r.BX != 110 || r.BY != 70 {
		t.Errorf("区域坐标错误: %+v", r)
	}
	if r.Confidence != "0.91" {
		t.Errorf("置信度格式错误: got %s", r.Confidence)
	}
	if r.Scale != "0.90" {
		t.Errorf("缩放比例格式错误: got %s", r.Scale)
	}
	if c := r.Center(); c.X != 60 || c.Y != 45 {
		t.Errorf("中心点错误: got (%d, %d), want (60, 45)", c.X, c.Y)
	}
	if r.Width() != 100 || r.Height() != 50 {
		t.Errorf("宽高错误: got %dx%d", r.Width(), r.Height())
	}
}

func TestFormatFloat(t *testing.T) {
	cases := map[float64]string{
		1:      "1.00",
		0.5:    "0.50",
		0.999:  "1.00",
		0.7049: "0.70",
		-0.25:  "-0.25",
	}
	for in, want := range cases {
		if got := FormatFloat(in); got != want {
			t.Errorf("FormatFloat(%v) = %s, want %s", in, got, want)
		}
	}
}

func TestDrawRegion(t *testing.T) {
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 50, 50, gocv.MatTypeCV8UC3)
	defer mat.Close()

	region := &MatchRegion{TX: 10, TY: 10, BX: 30, BY: 30}
	DrawRegion(&mat, region, ResultColor)

	// BGR: 绿色位于第二个通道
	if v := mat.GetUCharAt(10, 20*3+1); v != 255 {
		t.Errorf("边框像素未绘制: got %d", v)
	}
	if v := mat.GetUCharAt(20, 20*3+1); v != 0 {
		t.Errorf("区域内部不应被填充: got %d", v)
	}

	// nil 参数不应 panic
	DrawRegion(nil, region, ResultColor)
	DrawRegion(&mat, nil, ResultColor)
}
