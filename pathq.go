package main

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/liran-funaro/pathq/exec"
)

func main() {
	if err := exec.Execute(filepath.Base(os.Args[0]), os.Args[1:]...); err != nil {
		logrus.Fatal(err)
	}
}
