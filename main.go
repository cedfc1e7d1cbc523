package main

import (
	"github.com/matheusbnas/dashboard-financeiro-AI/cmd/analyze"
	"github.com/matheusbnas/dashboard-financeiro-AI/cmd/cache"
	"github.com/matheusbnas/dashboard-financeiro-AI/cmd/categorize"
	"github.com/matheusbnas/dashboard-financeiro-AI/cmd/root"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(analyze.Cmd)
	root.Cmd.AddCommand(cache.Cmd)
}

func main() {
	root.Execute()
}
