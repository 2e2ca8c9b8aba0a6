package main

import "github.com/neurlang/svvit/app"
import "github.com/neurlang/svvit/runner"

func main() {
	app.Run(runner.Main)
}
