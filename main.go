package main

import (
	"github.com/supertoolshq/gateway/cmd"
)

func main() {
	cmd.Execute()
}
