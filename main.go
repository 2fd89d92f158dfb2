package main

import "github.com/tadarshpandey/data-analysis-project/cmd"

func main() {
	cmd.Execute()
}
