package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/lk2023060901/dson-go/application"
	"github.com/lk2023060901/dson-go/pkg/log"
)

var (
	helpTemplate = `NAME:
   {{.Name}} - {{.Usage}}
USAGE:
   {{.HelpName}} {{if .VisibleFlags}}[global options]{{end}} command [command options] [arguments...]
COMMANDS:
   {{range .Commands}}{{join .Names ", "}}{{ "\t" }}{{.Usage}}
   {{end}}{{if .VisibleFlags}}
GLOBAL OPTIONS:
   {{range .VisibleFlags}}{{.}}
   {{end}}{{end}}
VERSION:
   {{.Version}}
`
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "Path to a yaml or json configuration file. Overrides " + application.EnvConfigPath,
	}
	typeFlag = cli.StringFlag{
		Name:  "type, t",
		Usage: "Record type to encode or decode: apple, food, occupation or dog",
		Value: "dog",
	}
	outFlag = cli.StringFlag{
		Name:  "out, o",
		Usage: "Write the result to this file instead of stdout",
	}
	zstdFlag = cli.BoolFlag{
		Name:  "zstd",
		Usage: "Compress the encoded output with zstd",
	}
	fromFlag = cli.StringFlag{
		Name:  "from",
		Usage: "Input format of the records: json or msgpack",
		Value: formatJSON,
	}
	toFlag = cli.StringFlag{
		Name:  "to",
		Usage: "Output format of the decoded record: dson, json or msgpack",
		Value: formatDSON,
	}
)

func main() {
	app := newApp(os.Stdin, os.Stdout)
	err := app.Run(os.Args)
	_ = log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// newApp 组装命令行应用，stdin 与 stdout 可在测试中替换。
func newApp(stdin io.Reader, stdout io.Writer) *cli.App {
	env := &cmdEnv{
		app:   application.New(),
		stdin: stdin,
	}

	app := cli.NewApp()
	cli.AppHelpTemplate = helpTemplate
	app.Name = "dson"
	app.Version = "v0.1.0"
	app.Usage = "Encode, decode and format type-directed relaxed JSON"
	app.Writer = stdout
	app.Flags = []cli.Flag{configFlag}
	app.Before = func(c *cli.Context) error {
		var args []string
		if path := c.String(configFlag.Name); path != "" {
			args = []string{"--config", path}
		}
		return env.app.Run(args)
	}
	app.Commands = []cli.Command{
		{
			Name:      "normalize",
			Usage:     "Strip insignificant whitespace outside string and char literals",
			ArgsUsage: "[file]",
			Flags:     []cli.Flag{outFlag},
			Action:    env.normalize,
		},
		{
			Name:      "pretty",
			Usage:     "Indent dson text for reading",
			ArgsUsage: "[file]",
			Flags:     []cli.Flag{outFlag},
			Action:    env.pretty,
		},
		{
			Name:   "types",
			Usage:  "List the built-in record types and their fields",
			Action: env.types,
		},
		{
			Name:   "demo",
			Usage:  "Encode the built-in sample records and decode them back",
			Action: env.demo,
		},
		{
			Name:      "encode",
			Usage:     "Convert JSON or msgpack records of the given type to dson, one line per input",
			ArgsUsage: "[file...]",
			Flags:     []cli.Flag{typeFlag, fromFlag, outFlag, zstdFlag},
			Action:    env.encode,
		},
		{
			Name:      "decode",
			Usage:     "Parse dson (optionally zstd compressed) into the given type and print it",
			ArgsUsage: "[file]",
			Flags:     []cli.Flag{typeFlag, toFlag, outFlag},
			Action:    env.decode,
		},
	}
	return app
}
