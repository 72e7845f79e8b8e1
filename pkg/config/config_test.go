package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatcherConfig(t *testing.T) {
	config := DefaultMatcherConfig()

	assert.Equal(t, 0.7, config.Threshold)
	assert.Equal(t, []float64{1, 0.9, 0.8, 0.7, 0.6, 0.5}, config.ScaleSteps)
	assert.Equal(t, "WARN", config.LogLevel)

	// 修改返回值不应影响默认序列
	config.ScaleSteps[0] = 2
	assert.Equal(t, 1.0, DefaultMatcherConfig().ScaleSteps[0])
}

func TestManagerSaveAndLoad(t *testing.T) {
	manager := NewManagerWithDir(t.TempDir())
	require.False(t, manager.Exists(), "初始时配置文件不应存在")

	config := &MatcherConfig{
		Threshold:  0.85,
		ScaleSteps: []float64{1.2, 1, 0.8},
		LogLevel:   "DEBUG",
	}
	require.NoError(t, manager.Save(config))
	require.True(t, manager.Exists(), "保存后配置文件应存在")

	loaded, err := manager.Load()
	require.NoError(t, err)
	assert.Equal(t, config, loaded)
}

func TestManagerLoadPartialFile(t *testing.T) {
	dir := t.TempDir()
	manager := NewManagerWithDir(dir)

	require.NoError(t, os.WriteFile(manager.GetConfigFile(), []byte(`{"threshold": 0.9, "scale_steps": []}`), 0644))

	loaded, err := manager.Load()
	require.NoError(t, err)
	assert.Equal(t, 0.9, loaded.Threshold)
	assert.Equal(t, DefaultMatcherConfig().ScaleSteps, loaded.ScaleSteps, "空缩放序列应回退到默认值")
	assert.Equal(t, "WARN", loaded.LogLevel)
}

func TestManagerLoadNonExistent(t *testing.T) {
	manager := NewManagerWithDir(t.TempDir())

	config, err := manager.Load()
	require.NoError(t, err, "加载不存在的配置不应报错")
	assert.Equal(t, DefaultMatcherConfig(), config)
}

func TestManagerLoadCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	manager := NewManagerWithDir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("not valid json"), 0644))

	config, err := manager.Load()
	assert.Error(t, err, "加载损坏的配置应返回错误")
	assert.Equal(t, DefaultMatcherConfig(), config, "即使出错也应返回默认配置")
}

func TestManagerClear(t *testing.T) {
	manager := NewManagerWithDir(t.TempDir())

	require.NoError(t, manager.Save(DefaultMatcherConfig()))
	require.NoError(t, manager.Clear())
	assert.False(t, manager.Exists(), "清除后配置文件不应存在")

	// 清除不存在的文件不应报错
	assert.NoError(t, manager.Clear())
}

func TestManagerPaths(t *testing.T) {
	dir := t.TempDir()
	manager := NewManagerWithDir(dir)

	assert.Equal(t, dir, manager.GetConfigDir())
	assert.Equal(t, filepath.Join(dir, "config.json"), manager.GetConfigFile())
}

func TestDefaultManager(t *testing.T) {
	manager := GetDefaultManager()
	require.NotNil(t, manager)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("无法获取用户目录: %v", err)
	}
	assert.Equal(t, filepath.Join(homeDir, ".templatematcher"), manager.GetConfigDir())
}
