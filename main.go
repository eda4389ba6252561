package main

import (
	"fmt"
	"os"

	"fjacquet/chatledger/cmd/batch"
	"fjacquet/chatledger/cmd/categories"
	"fjacquet/chatledger/cmd/parse"
	"fjacquet/chatledger/cmd/record"
	"fjacquet/chatledger/cmd/root"
	"fjacquet/chatledger/cmd/stats"
	"fjacquet/chatledger/cmd/suggest"
)

func init() {
	// 1. Initialize root command flags
	root.Init()

	// 2. Add all subcommands
	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(suggest.Cmd)
	root.Cmd.AddCommand(categories.Cmd)
	root.Cmd.AddCommand(record.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(stats.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
