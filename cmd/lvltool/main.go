// lvltool 是关卡文件的命令行工具：查看、导出、校验往返一致性和简单编辑。
package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"LevelEditor/internal/shared/config"
	"LevelEditor/internal/shared/logs"
)

type command struct {
	usage string
	run   func(args []string, out io.Writer) error
}

var commands = map[string]command{
	"inspect":   {"inspect <file.lvl>", runInspect},
	"dump":      {"dump [--format yaml|json] <file.lvl>", runDump},
	"roundtrip": {"roundtrip <file.lvl>", runRoundtrip},
	"set-tile":  {"set-tile [-o out.lvl] <file.lvl> <x> <y> <id>", runSetTile},
	"defs":      {"defs [--tiles tiles.gon] [--spawns spawns.gon] [-q query]", runDefs},
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: lvltool [--log-level level] <command> [args]")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", commands[name].usage)
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	global := pflag.NewFlagSet("lvltool", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(stderr)
	level := global.String("log-level", "warn", "log level")
	if err := global.Parse(args); err != nil {
		return 2
	}
	_ = logs.Init("lvltool", config.LogConfig{Level: *level})
	defer logs.Sync()

	rest := global.Args()
	if len(rest) == 0 {
		usage(stderr)
		return 2
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", rest[0])
		usage(stderr)
		return 2
	}
	if err := cmd.run(rest[1:], stdout); err != nil {
		logs.Error(rest[0]+" failed", zap.Error(err))
		fmt.Fprintf(stderr, "%s: %v\n", rest[0], err)
		if isUsageError(err) {
			fmt.Fprintf(stderr, "usage: lvltool %s\n", cmd.usage)
		}
		return 1
	}
	return 0
}
