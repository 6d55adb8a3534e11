// Package main は hyperreal-studio の CLI です。
//
// Usage:
//
//	studio serve                       HTTP API を起動
//	studio generate --prompt "..."     1 枚生成してファイルに保存
package main

import (
	"fmt"
	"os"

	"github.com/shouni/hyperreal-studio/cmd/studio/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
