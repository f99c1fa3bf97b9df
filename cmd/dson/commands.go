package main

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/lk2023060901/dson-go/application"
	"github.com/lk2023060901/dson-go/internal/compressor"
	"github.com/lk2023060901/dson-go/internal/pool/bytebuffer"
	"github.com/lk2023060901/dson-go/internal/serializer"
	"github.com/lk2023060901/dson-go/pkg/dson"
	"github.com/lk2023060901/dson-go/pkg/dson/pretty"
	"github.com/lk2023060901/dson-go/pkg/log"
	"github.com/lk2023060901/dson-go/pkg/util/conc"
	"github.com/lk2023060901/dson-go/pkg/util/merr"
)

const (
	formatDSON    = "dson"
	formatJSON    = "json"
	formatMsgpack = "msgpack"
)

// bridge 返回用于与其它格式互转的 Serializer。
func bridge(format string) (serializer.Serializer, error) {
	switch format {
	case formatJSON:
		return serializer.NewJSONSerializer(), nil
	case formatMsgpack:
		return serializer.NewMsgpackSerializer(), nil
	default:
		return nil, merr.WrapErrParameterInvalid(formatJSON+"|"+formatMsgpack, format, "unknown format")
	}
}

type cmdEnv struct {
	app   *application.Application
	stdin io.Reader
}

func (e *cmdEnv) logger() *log.MLogger {
	return e.app.Logger("cli")
}

// readInput 读取 path 指向的文件，path 为空时读取标准输入。
func (e *cmdEnv) readInput(path string) ([]byte, error) {
	r := e.stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "open %s", path)
		}
		defer f.Close()
		r = f
	}
	buf := bytebuffer.Get()
	if _, err := buf.ReadFrom(r); err != nil {
		bytebuffer.Put(buf)
		return nil, errors.Wrap(err, "read input")
	}
	return bytebuffer.Detach(buf), nil
}

// writeOutput 将结果写到 --out 指定的文件或标准输出，newline 控制是否补换行。
func writeOutput(c *cli.Context, data []byte, newline bool) error {
	if newline {
		data = append(data, '\n')
	}
	if path := c.String(outFlag.Name); path != "" {
		return errors.Wrapf(os.WriteFile(path, data, 0o644), "write %s", path)
	}
	_, err := c.App.Writer.Write(data)
	return err
}

func (e *cmdEnv) normalize(c *cli.Context) error {
	data, err := e.readInput(c.Args().First())
	if err != nil {
		return err
	}
	return writeOutput(c, dson.Normalize(data), true)
}

func (e *cmdEnv) pretty(c *cli.Context) error {
	data, err := e.readInput(c.Args().First())
	if err != nil {
		return err
	}
	return writeOutput(c, pretty.Format(data), true)
}

func (e *cmdEnv) types(c *cli.Context) error {
	registry := dson.DefaultRegistry()
	var sb strings.Builder
	for _, name := range fixtureNames() {
		t := fixtures[name]
		desc, err := registry.Describe(t)
		if err != nil {
			return err
		}
		fmt.Fprintf(&sb, "%s: %s\n", name, desc)
		for _, f := range desc.Schema.Serializable() {
			fmt.Fprintf(&sb, "    %s: %s\n", f.Name, f.Type)
		}
	}
	_, err := io.WriteString(c.App.Writer, sb.String())
	return err
}

func (e *cmdEnv) encode(c *cli.Context) error {
	typeName := c.String(typeFlag.Name)
	paths := []string(c.Args())
	if len(paths) == 0 {
		paths = []string{""}
	}

	from := c.String(fromFlag.Name)
	in, err := bridge(from)
	if err != nil {
		return err
	}
	values := make([]any, 0, len(paths))
	for _, path := range paths {
		data, err := e.readInput(path)
		if err != nil {
			return err
		}
		v, err := newFixture(typeName)
		if err != nil {
			return err
		}
		if err := in.Unmarshal(data, v); err != nil {
			return errors.Wrapf(err, "parse %s input %q", from, path)
		}
		values = append(values, v)
	}

	s := e.app.Serializer()
	var encoded [][]byte
	switch len(values) {
	case 1:
		text, err := s.Marshal(values[0])
		if err != nil {
			return err
		}
		encoded = [][]byte{text}
	default:
		pool := conc.NewDefaultPool[[]byte]()
		defer pool.Release()
		if encoded, err = s.MarshalBatch(pool, values...); err != nil {
			return err
		}
	}

	buf := bytebuffer.Get()
	for i, text := range encoded {
		if i > 0 {
			_ = buf.WriteByte('\n')
		}
		_, _ = buf.Write(text)
	}
	out := bytebuffer.Detach(buf)

	e.logger().Info("encoded records",
		zap.String("type", typeName),
		zap.Int("records", len(encoded)),
		zap.Int("bytes", len(out)),
		zap.Bool("zstd", c.Bool(zstdFlag.Name)))

	if !c.Bool(zstdFlag.Name) {
		return writeOutput(c, out, true)
	}
	zc, err := compressor.NewZstdCompressor()
	if err != nil {
		return err
	}
	defer zc.Close()
	compressed, err := zc.Compress(nil, out)
	if err != nil {
		return err
	}
	return writeOutput(c, compressed, false)
}

func (e *cmdEnv) decode(c *cli.Context) error {
	typeName := c.String(typeFlag.Name)
	data, err := e.readInput(c.Args().First())
	if err != nil {
		return err
	}
	if compressor.IsZstd(data) {
		zc, err := compressor.NewZstdCompressor()
		if err != nil {
			return err
		}
		defer zc.Close()
		if data, err = zc.Decompress(nil, data); err != nil {
			return err
		}
	}

	v, err := newFixture(typeName)
	if err != nil {
		return err
	}
	s := e.app.Serializer()
	if err := s.Unmarshal(data, v); err != nil {
		return err
	}

	switch to := c.String(toFlag.Name); to {
	case formatDSON:
		text, err := s.Marshal(v)
		if err != nil {
			return err
		}
		return writeOutput(c, pretty.Format(text), true)
	case formatJSON:
		out, err := serializer.NewJSONSerializer().MarshalIndent(v, "  ")
		if err != nil {
			return errors.Wrap(err, "render json")
		}
		return writeOutput(c, out, true)
	default:
		out, err := bridge(to)
		if err != nil {
			return err
		}
		data, err := out.Marshal(v)
		if err != nil {
			return errors.Wrapf(err, "render %s", to)
		}
		return writeOutput(c, data, false)
	}
}

// demo 批量编码示例记录，打印排版后的文本，并校验解码后再次编码的结果一致。
func (e *cmdEnv) demo(c *cli.Context) error {
	s := e.app.Serializer()
	pool := conc.NewDefaultPool[[]byte]()
	defer pool.Release()

	values := samples()
	encoded, err := s.MarshalBatch(pool, values...)
	if err != nil {
		return err
	}

	w := c.App.Writer
	for i, text := range encoded {
		t := reflect.TypeOf(values[i]).Elem()
		fmt.Fprintf(w, "# %s\n%s\n%s\n", t.Name(), text, pretty.Format(text))

		back := reflect.New(t).Interface()
		if err := s.Unmarshal(text, back); err != nil {
			return errors.Wrapf(err, "decode %s", t.Name())
		}
		again, err := s.Marshal(back)
		if err != nil {
			return err
		}
		if string(again) != string(text) {
			return errors.Newf("round trip of %s changed the text: %s", t.Name(), again)
		}
		fmt.Fprintf(w, "round trip ok (%d bytes)\n\n", len(text))
	}
	return nil
}
