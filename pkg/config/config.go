package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/zoeyai/templatematcher/pkg/vision/cv"
)

// MatcherConfig 匹配默认参数
// 命令行参数优先级高于配置文件
type MatcherConfig struct {
	Threshold  float64   `json:"threshold"`
	ScaleSteps []float64 `json:"scale_steps"`
	LogLevel   string    `json:"log_level"`
}

// DefaultMatcherConfig 默认匹配配置
func DefaultMatcherConfig() *MatcherConfig {
	steps := make([]float64, len(cv.DefaultScaleSteps))
	copy(steps, cv.DefaultScaleSteps)
	return &MatcherConfig{
		Threshold:  cv.DefaultThreshold,
		ScaleSteps: steps,
		LogLevel:   "WARN",
	}
}

// Manager 配置管理器
type Manager struct {
	configDir  string
	configFile string
	mu         sync.RWMutex
}

// NewManager 创建配置管理器
func NewManager() *Manager {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return NewManagerWithDir(filepath.Join(homeDir, ".templatematcher"))
}

// NewManagerWithDir 使用指定目录创建配置管理器
func NewManagerWithDir(configDir string) *Manager {
	return &Manager{
		configDir:  configDir,
		configFile: filepath.Join(configDir, "config.json"),
	}
}

// ensureDir 确保配置目录存在
func (m *Manager) ensureDir() error {
	return os.MkdirAll(m.configDir, 0755)
}

// Load 加载配置
// 文件中缺失的字段保留默认值，出错时同样返回默认配置
func (m *Manager) Load() (*MatcherConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, err := os.Stat(m.configFile); os.IsNotExist(err) {
		return DefaultMatcherConfig(), nil
	}

	data, err := os.ReadFile(m.configFile)
	if err != nil {
		return DefaultMatcherConfig(), fmt.Errorf("读取配置文件失败: %w", err)
	}

	config := DefaultMatcherConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return DefaultMatcherConfig(), fmt.Errorf("解析配置文件失败: %w", err)
	}
	if len(config.ScaleSteps) == 0 {
		config.ScaleSteps = DefaultMatcherConfig().ScaleSteps
	}

	return config, nil
}

// Save 保存配置
func (m *Manager) Save(config *MatcherConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureDir(); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(m.configFile, data, 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}

	return nil
}

// Clear 清除配置
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := os.Stat(m.configFile); os.IsNotExist(err) {
		return nil
	}

	return os.Remove(m.configFile)
}

// GetConfigDir 获取配置目录
func (m *Manager) GetConfigDir() string {
	return m.configDir
}

// GetConfigFile 获取配置文件路径
func (m *Manager) GetConfigFile() string {
	return m.configFile
}

// Exists 检查配置文件是否存在
func (m *Manager) Exists() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := os.Stat(m.configFile)
	return err == nil
}

// 全局配置管理器
var defaultManager = NewManager()

// GetDefaultManager 获取默认配置管理器
func GetDefaultManager() *Manager {
	return defaultManager
}
