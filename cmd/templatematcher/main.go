package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/zoeyai/templatematcher/internal/logger"
	"github.com/zoeyai/templatematcher/pkg/config"
	"github.com/zoeyai/templatematcher/pkg/screen"
	"github.com/zoeyai/templatematcher/pkg/vision"
)

// 版本信息 (可通过 ldflags 注入)
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// configManager 配置管理器，测试时替换
var configManager = config.GetDefaultManager()

// errUsage 参数个数错误
var errUsage = errors.New("参数错误")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run 执行命令，返回退出码
// 0: 正常结束（无论是否匹配） 1: 运行错误 2: 参数错误
func run(args []string, stdout, stderr io.Writer) int {
	logger.Default().SetOutput(stderr)

	// 加载配置，配置值作为命令行参数的默认值
	cfg, err := configManager.Load()
	if err != nil {
		logger.Warn("加载配置失败，使用默认值: %v", err)
	}

	fs := flag.NewFlagSet("templatematcher", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printHelp(stderr) }

	var (
		outputPath  = fs.String("o", "", "输出图像路径")
		confidence  = fs.Float64("c", cfg.Threshold, "匹配阈值")
		scaleSteps  = fs.String("s", formatScaleSteps(cfg.ScaleSteps), "缩放比例，逗号分隔")
		gray        = fs.Bool("gray", false, "灰度匹配")
		screenMode  = fs.Bool("screen", false, "截取屏幕作为输入图像")
		display     = fs.Int("display", -1, "截取的显示器编号，-1 表示全屏")
		wait        = fs.Duration("wait", 0, "屏幕模式下等待匹配的最长时间")
		interval    = fs.Duration("interval", vision.DefaultOptions.Interval, "屏幕模式下的重试间隔")
		logLevel    = fs.String("log-level", cfg.LogLevel, "日志级别 (DEBUG/INFO/WARN/ERROR)")
		saveConfig  = fs.Bool("save", false, "保存 -c/-s/-log-level 为默认值")
		showVersion = fs.Bool("version", false, "显示版本信息")
	)

	positional, err := parseArgs(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *showVersion {
		printVersion(stdout)
		return 0
	}

	logger.Default().SetLevel(logger.ParseLevel(*logLevel))

	// 空字符串视为未设置
	steps := cfg.ScaleSteps
	if *scaleSteps != "" {
		steps, err = parseScaleSteps(*scaleSteps)
		if err != nil {
			logger.Error("%v", err)
			return 1
		}
	}

	if !*screenMode {
		warnScreenOnlyFlags(fs)
	}

	if *saveConfig {
		saved := &config.MatcherConfig{
			Threshold:  *confidence,
			ScaleSteps: steps,
			LogLevel:   logger.Default().GetLevel().String(),
		}
		if err := configManager.Save(saved); err != nil {
			logger.Warn("保存配置失败: %v", err)
		} else {
			logger.Info("配置已保存到 %s", configManager.GetConfigFile())
		}
	}

	opts := []vision.Option{
		vision.WithThreshold(*confidence),
		vision.WithScaleSteps(steps...),
		vision.WithOutput(*outputPath),
		vision.WithGray(*gray),
		vision.WithTimeout(*wait),
		vision.WithInterval(*interval),
	}

	var region *vision.MatchRegion
	if *screenMode {
		region, err = searchScreen(positional, *display, opts)
	} else {
		region, err = searchFiles(positional, opts)
	}

	if errors.Is(err, errUsage) {
		printHelp(stderr)
		return 2
	}
	if err != nil {
		logger.Error("%v", err)
		return 1
	}

	if err := printResult(stdout, region); err != nil {
		logger.Error("%v", err)
		return 1
	}
	return 0
}

// parseArgs 解析命令行，选项可以出现在位置参数之前或之后
// "--" 之后的参数全部视为位置参数
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// screenOnlyFlags 仅在 -screen 模式下生效的参数
var screenOnlyFlags = map[string]bool{"display": true, "wait": true, "interval": true}

// warnScreenOnlyFlags 提示未启用 -screen 时被忽略的参数
func warnScreenOnlyFlags(fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		if screenOnlyFlags[f.Name] {
			logger.Warn("参数 -%s 仅在 -screen 模式下生效，已忽略", f.Name)
		}
	})
}

// searchFiles 在输入图像文件中查找模板
func searchFiles(args []string, opts []vision.Option) (*vision.MatchRegion, error) {
	if len(args) != 2 {
		return nil, errUsage
	}
	logger.Debug("输入图像: %s, 模板: %s", args[0], args[1])
	return vision.SearchTemplateRegion(args[0], args[1], opts...)
}

// searchScreen 截取屏幕并查找模板，Ctrl+C 中断等待
func searchScreen(args []string, display int, opts []vision.Option) (*vision.MatchRegion, error) {
	if len(args) != 1 {
		return nil, errUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Debug("屏幕模式: display=%d, 模板: %s", display, args[0])
	return vision.WaitForTemplateRegion(ctx, screen.Capturer(display), args[0], opts...)
}

// printResult 输出匹配结果，未找到时输出 None
func printResult(w io.Writer, region *vision.MatchRegion) error {
	if region == nil {
		_, err := fmt.Fprintln(w, "None")
		return err
	}

	line, err := formatRegion(region)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, line)
	return err
}

// formatRegion 按 tx, ty, bx, by, confidence, scale 的顺序序列化结果
// 分隔符为 ", " 和 ": "，与下游脚本解析的格式一致
func formatRegion(region *vision.MatchRegion) (string, error) {
	confidence, err := json.Marshal(region.Confidence)
	if err != nil {
		return "", fmt.Errorf("序列化结果失败: %w", err)
	}
	scale, err := json.Marshal(region.Scale)
	if err != nil {
		return "", fmt.Errorf("序列化结果失败: %w", err)
	}
	return fmt.Sprintf(`{"tx": %d, "ty": %d, "bx": %d, "by": %d, "confidence": %s, "scale": %s}`,
		region.TX, region.TY, region.BX, region.BY, confidence, scale), nil
}

// parseScaleSteps 解析逗号分隔的缩放比例
func parseScaleSteps(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	steps := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("无效的缩放比例 %q: %w", part, err)
		}
		steps = append(steps, v)
	}
	return steps, nil
}

// formatScaleSteps 格式化缩放比例为逗号分隔字符串
func formatScaleSteps(steps []float64) string {
	parts := make([]string, len(steps))
	for i, s := range steps {
		parts[i] = strconv.FormatFloat(s, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

// printVersion 打印版本信息
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "templatematcher v%s\n", Version)
	fmt.Fprintf(w, "Build Time: %s\n", BuildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", GitCommit)
}

// printHelp 打印帮助信息
func printHelp(w io.Writer) {
	fmt.Fprintln(w, "templatematcher - 多尺度模板匹配工具")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "用法:")
	fmt.Fprintln(w, "  templatematcher [选项] input_image_path template_image_path [选项]")
	fmt.Fprintln(w, "  templatematcher -screen [选项] template_image_path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "选项:")
	fmt.Fprintln(w, "  -o string           输出图像路径（设置后总会写出图像）")
	fmt.Fprintln(w, "  -c float            匹配阈值 (默认 0.7)")
	fmt.Fprintln(w, "  -s string           缩放比例，逗号分隔 (默认 1,0.9,0.8,0.7,0.6,0.5)")
	fmt.Fprintln(w, "  -gray               灰度匹配")
	fmt.Fprintln(w, "  -screen             截取屏幕作为输入图像")
	fmt.Fprintln(w, "  -display int        截取的显示器编号 (默认 -1，全屏)")
	fmt.Fprintln(w, "  -wait duration      屏幕模式下等待匹配的最长时间 (例: 10s)")
	fmt.Fprintf(w, "  -interval duration  屏幕模式下的重试间隔 (默认 %s)\n", vision.DefaultOptions.Interval)
	fmt.Fprintln(w, "  -log-level string   日志级别 (DEBUG/INFO/WARN/ERROR)")
	fmt.Fprintln(w, "  -save               保存 -c/-s/-log-level 为默认值")
	fmt.Fprintln(w, "  -version            显示版本信息")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "输出:")
	fmt.Fprintln(w, `  找到时输出 {"tx": .., "ty": .., "bx": .., "by": .., "confidence": "0.93", "scale": "0.90"}`)
	fmt.Fprintln(w, "  未找到时输出 None")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "配置文件位置: %s\n", configManager.GetConfigFile())
}
