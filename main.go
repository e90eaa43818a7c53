package main

import "github.com/theirongolddev/fcast/cmd"

func main() {
	cmd.Execute()
}
