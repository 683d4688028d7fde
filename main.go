package main

import "github.com/YangQing-Lin/cc-config-cli/cmd"

func main() {
	cmd.Execute()
}
