package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/keyforge/shs1/config"
)

const version = "0.1.0"

// ObtainSettings parses flags and loads the ini config file they point at,
// mirroring cmd/zkserver's ObtainSettings.
func ObtainSettings() (*config.Config, error) {
	c := config.New()

	root, err := config.DefaultRootPath()
	if err != nil {
		return nil, err
	}

	filename := flag.String("cfg", root+"/shs1peer.conf", "config file")
	showVersion := flag.Bool("version", false, "show version")
	flag.Parse()

	if *showVersion {
		fmt.Fprintf(os.Stderr, "shs1peer %s (%s)\n", version, runtime.Version())
		os.Exit(0)
	}

	if err := c.Load(*filename); err != nil {
		return nil, err
	}

	return c, nil
}
