package dson

import (
	"github.com/lk2023060901/dson-go/pkg/util/merr"
)

// DefaultMaxDepth 为默认的嵌套深度上限。
const DefaultMaxDepth = 256

type options struct {
	registry       *Registry
	maxDepth       int
	legacyFraction bool
}

func defaultOptions() *options {
	return &options{
		registry: DefaultRegistry(),
		maxDepth: DefaultMaxDepth,
	}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Option 用于配置 Encoder 与 Decoder。
type Option func(*options)

// WithRegistry 指定使用的 Registry，默认为 DefaultRegistry。
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithMaxDepth 设置记录与容器的最大嵌套深度，非正数表示使用默认值。
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxDepth = n
		}
	}
}

// WithLegacyFraction 让 Double 与 Float 按旧格式逐位累加小数部分。
func WithLegacyFraction() Option {
	return func(o *options) {
		o.legacyFraction = true
	}
}

// Config 为编解码器的可配置项，通常位于配置文件的 dson 节点下。
type Config struct {
	MaxDepth       int  `mapstructure:"maxdepth" json:"maxdepth"`
	LegacyFraction bool `mapstructure:"legacyfraction" json:"legacyfraction"`
}

// DefaultConfig 返回默认配置。
func DefaultConfig() Config {
	return Config{MaxDepth: DefaultMaxDepth}
}

// Validate 检查配置是否合法。
func (c Config) Validate() error {
	if c.MaxDepth < 0 {
		return merr.WrapErrParameterInvalidMsg("maxdepth must not be negative, got %d", c.MaxDepth)
	}
	return nil
}

// Options 将配置转换为 Option 列表。
func (c Config) Options() []Option {
	opts := []Option{WithMaxDepth(c.MaxDepth)}
	if c.LegacyFraction {
		opts = append(opts, WithLegacyFraction())
	}
	return opts
}
