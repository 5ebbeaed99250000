package main

import (
	"fmt"
	"os"

	"fjacquet/stmt-import/cmd/app"
	"fjacquet/stmt-import/cmd/root"
)

func main() {
	if err := app.New(&root.Options{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
