package main

import (
	"github.com/Alonza0314/free-ran-enb/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
