package main

import (
	"context"

	"github.com/cube2222/ocitdo/cmd"
)

func main() {
	cmd.Execute(context.Background())
}
