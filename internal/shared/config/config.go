package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const defaultConfigRelPath = "configs/conf.yml"

// EnvPrefix 是环境变量覆盖的前缀，例如 LEVELEDITOR_HTTP_PORT。
const EnvPrefix = "LEVELEDITOR"

type Config struct {
	HTTP    HTTPConfig    `yaml:"http" mapstructure:"http"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Defs    DefsConfig    `yaml:"defs" mapstructure:"defs"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Journal JournalConfig `yaml:"journal" mapstructure:"journal"`
}

type HTTPConfig struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// Addr 返回 host:port。
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

// DefsConfig 指定 tile/实体定义文件的位置。
type DefsConfig struct {
	TilesFile  string `yaml:"tiles_file" mapstructure:"tiles_file"`
	SpawnsFile string `yaml:"spawns_file" mapstructure:"spawns_file"`
	Watch      bool   `yaml:"watch" mapstructure:"watch"`
}

// StoreConfig 是关卡文件的存放目录，相对路径都以它为根。
type StoreConfig struct {
	Root string `yaml:"root" mapstructure:"root"`
}

// JournalConfig 控制保存记录写到哪里。Driver 为 "mysql" 时使用 DSN，为空或 "memory" 时只保存在内存。
type JournalConfig struct {
	Driver  string        `yaml:"driver" mapstructure:"driver"`
	DSN     string        `yaml:"dsn" mapstructure:"dsn"`
	MaxIdle int           `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn int           `yaml:"max_conn" mapstructure:"max_conn"`
	MaxLife time.Duration `yaml:"max_life" mapstructure:"max_life"`
	ShowSQL bool          `yaml:"show_sql" mapstructure:"show_sql"`
}

// ErrNotFound 表示没有找到配置文件。
var ErrNotFound = errors.New("config file not found")

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.host", "127.0.0.1")
	v.SetDefault("http.port", 8090)
	v.SetDefault("http.shutdown_timeout", "5s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 7)
	v.SetDefault("defs.tiles_file", "tiles.gon")
	v.SetDefault("defs.spawns_file", "spawns.gon")
	v.SetDefault("defs.watch", true)
	v.SetDefault("store.root", ".")
	v.SetDefault("journal.driver", "memory")
	v.SetDefault("journal.max_idle", 2)
	v.SetDefault("journal.max_conn", 10)
	v.SetDefault("journal.max_life", "1h")
}

// Loader 持有一份 viper 实例，负责读取、覆盖和热更新。
type Loader struct {
	v    *viper.Viper
	path string
}

// NewLoader 解析配置文件路径：
// 1) 传入 cfgName（相对/绝对路径）则优先使用，文件必须存在；
// 2) 否则从当前目录开始向上查找 `configs/conf.yml`，找不到时只用默认值和环境变量。
func NewLoader(cfgName string) (*Loader, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	l := &Loader{v: v}
	if cfgName != "" {
		path, err := filepath.Abs(cfgName)
		if err != nil {
			return nil, err
		}
		if !fileExist(path) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		l.path = path
	} else if cwd, err := os.Getwd(); err == nil {
		l.path = findConfigUpward(cwd)
	}

	if l.path != "" {
		v.SetConfigFile(l.path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", l.path, err)
		}
	}
	return l, nil
}

// Path 返回实际使用的配置文件，没有文件时为空。
func (l *Loader) Path() string {
	return l.path
}

// BindFlags 让命令行参数覆盖配置项，key 为配置路径，例如 "http.port"。
func (l *Loader) BindFlags(flags *pflag.FlagSet, keys map[string]string) error {
	for key, flag := range keys {
		f := flags.Lookup(flag)
		if f == nil {
			return fmt.Errorf("flag %q not defined", flag)
		}
		if err := l.v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// Decode 把当前配置解码为 Config。
func (l *Loader) Decode() (Config, error) {
	var c Config
	err := l.v.Unmarshal(&c, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return c, nil
}

// Watch 在配置文件变化时重新解码并回调；解码失败时回调 err。没有配置文件时什么也不做。
func (l *Loader) Watch(onChange func(Config, error)) {
	if l.path == "" {
		return
	}
	l.v.OnConfigChange(func(fsnotify.Event) {
		onChange(l.Decode())
	})
	l.v.WatchConfig()
}

// Load 是 NewLoader + Decode 的简写。
func Load(cfgName string) (Config, error) {
	l, err := NewLoader(cfgName)
	if err != nil {
		return Config{}, err
	}
	return l.Decode()
}

func findConfigUpward(startDir string) string {
	dir := startDir
	for {
		candidate := filepath.Join(dir, defaultConfigRelPath)
		if fileExist(candidate) {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
