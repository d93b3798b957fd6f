package main

import (
	"github.com/axellelanca/linkbio/cmd"
	_ "github.com/axellelanca/linkbio/cmd/cli"
	_ "github.com/axellelanca/linkbio/cmd/server"
)

func main() {
	cmd.Execute()
}
