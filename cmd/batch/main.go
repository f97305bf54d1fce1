// Command batch はバッチジョブの常駐実行・単発実行・デモデータ投入を行います。
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"

	"invest_backend/internal/platform/logger"
)

func main() {
	_ = godotenv.Load()

	logCfg, err := logger.LoadConfigFromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load logger config:", err)
		os.Exit(1)
	}
	logger.Setup(logCfg)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	commander.Register(&runCmd{}, "")
	commander.Register(&execCmd{}, "")
	commander.Register(&listCmd{}, "")
	commander.Register(&seedCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
