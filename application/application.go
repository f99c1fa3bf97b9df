package application

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lk2023060901/dson-go/internal/serializer"
	"github.com/lk2023060901/dson-go/pkg/dson"
	zlog "github.com/lk2023060901/dson-go/pkg/log"
	"github.com/lk2023060901/dson-go/pkg/metrics"
	zviper "github.com/lk2023060901/dson-go/pkg/util/viper"
)

const (
	defaultConfigPath = "./config.yaml"

	// EnvConfigPath 指定配置文件路径的环境变量。
	EnvConfigPath = "DSON_CONFIG_FILE_PATH"
)

// Application 是命令行工具的运行时容器，持有配置、日志与编解码器。
type Application struct {
	cfg     *zviper.Config
	codec   dson.Config
	loggers map[string]*zlog.MLogger
}

// New 创建一个使用默认编解码配置的 Application。
func New() *Application {
	return &Application{codec: dson.DefaultConfig()}
}

// Run 解析参数中的配置路径并完成初始化，配置文件按以下优先级确定：
//  1. 默认：./config.yaml，不存在时使用内置默认值
//  2. 环境变量：DSON_CONFIG_FILE_PATH
//  3. 参数：--config <path> 或 --config=<path>
func (a *Application) Run(args []string) error {
	cfg, err := a.loadConfig(args)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := a.cfg.UnmarshalKey("dson", &a.codec); err != nil {
		return errors.Wrap(err, "decode dson config")
	}
	if err := a.codec.Validate(); err != nil {
		return err
	}

	if err := a.initLogging(); err != nil {
		return err
	}
	metrics.Register(prometheus.DefaultRegisterer)
	zlog.Debug("application initialized",
		zlog.FieldComponent("application"))
	return nil
}

// Config 返回已加载的配置。
func (a *Application) Config() *zviper.Config {
	return a.cfg
}

// Codec 返回编解码配置。
func (a *Application) Codec() dson.Config {
	return a.codec
}

// Serializer 按当前配置创建一个 DSONSerializer。
func (a *Application) Serializer() *serializer.DSONSerializer {
	s := serializer.NewDSONSerializer(a.codec.Options()...)
	if lg, ok := a.loggers["serializer"]; ok {
		s.SetLogger(lg)
	}
	return s
}

// Logger 返回配置中声明的模块 Logger，未声明时退回到全局 Logger。
func (a *Application) Logger(name string) *zlog.MLogger {
	if lg, ok := a.loggers[name]; ok && lg != nil {
		return lg
	}
	return &zlog.MLogger{Logger: zlog.L()}
}

// loadConfig 解析配置路径并通过 viper 加载配置。
func (a *Application) loadConfig(args []string) (*zviper.Config, error) {
	configPath := defaultConfigPath
	explicit := false

	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		configPath, explicit = envPath, true
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--config" {
			if i+1 >= len(args) {
				return nil, errors.New("missing value after --config")
			}
			configPath, explicit = args[i+1], true
			i++
			continue
		}
		if val, ok := strings.CutPrefix(arg, "--config="); ok && val != "" {
			configPath, explicit = val, true
		}
	}

	cfg := zviper.New()
	if !explicit {
		if _, err := os.Stat(configPath); err != nil {
			return cfg, nil
		}
	}
	if err := cfg.LoadFile(configPath); err != nil {
		return nil, errors.Wrapf(err, "failed to load config file %q", configPath)
	}
	return cfg, nil
}

// initLogging 初始化全局 Logger 与模块 Logger。
func (a *Application) initLogging() error {
	if err := a.initGlobalLoggerFromEnv(); err != nil {
		return err
	}
	return a.initModuleLoggersFromConfig()
}

// initGlobalLoggerFromEnv 根据 DSON_LOG_* 环境变量配置全局 Logger。
//
//   - DSON_LOG_ENABLE：为 1/true 时开启输出，否则只保留默认的 warn 级标准输出。
//   - DSON_LOG_LEVEL：日志级别，默认 info。
//   - DSON_LOG_STDOUT：是否输出到标准输出，默认 false。
//   - DSON_LOG_FILE_DIR：日志目录。
//   - DSON_LOG_FILE：日志文件名，留空表示不写文件。
//   - DSON_LOG_FORMAT：日志格式，text 或 json，默认 text。
func (a *Application) initGlobalLoggerFromEnv() error {
	if !getenvBool("DSON_LOG_ENABLE", false) {
		return nil
	}

	cfg := &zlog.Config{
		Level:  getenvDefault("DSON_LOG_LEVEL", "info"),
		Format: getenvDefault("DSON_LOG_FORMAT", "text"),
		Stdout: getenvBool("DSON_LOG_STDOUT", false),
		File: zlog.FileLogConfig{
			RootPath: getenvDefault("DSON_LOG_FILE_DIR", ""),
			Filename: getenvDefault("DSON_LOG_FILE", ""),
		},
	}
	logger, props, err := zlog.InitLogger(cfg)
	if err != nil {
		return errors.Wrap(err, "init global logger from env")
	}
	zlog.ReplaceGlobals(logger, props)
	return nil
}

// initModuleLoggersFromConfig 根据 logging 节点创建命名 Logger。
//
//	logging:
//	  serializer:
//	    level: debug
//	    stdout: true
//	    file:
//	      rootpath: ./logs
//	      filename: serializer.log
func (a *Application) initModuleLoggersFromConfig() error {
	raw := make(map[string]zlog.Config)
	if err := a.cfg.UnmarshalKey("logging", &raw); err != nil {
		return errors.Wrap(err, "decode logging config")
	}
	if len(raw) == 0 {
		return nil
	}

	a.loggers = make(map[string]*zlog.MLogger, len(raw))
	for name, lc := range raw {
		cfgCopy := lc
		logger, _, err := zlog.InitLogger(&cfgCopy)
		if err != nil {
			return errors.Wrapf(err, "init module logger %q", name)
		}
		a.loggers[name] = &zlog.MLogger{Logger: logger.With(zlog.FieldModule(name))}
	}
	return nil
}

func getenvDefault(key, def string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	return val
}

func getenvBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
