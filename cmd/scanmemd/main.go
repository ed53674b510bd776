// Copyright 2021 Intel Corporation. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/scanmem-go/scanmem/pkg/scanengine"
)

// startupConfig is the optional YAML file a daemon-mode invocation may
// be launched with: a pid to attach to up front and the session
// defaults to use, in the shape the teacher loads its Policy/Routine
// config from.
type startupConfig struct {
	Pid    int                      `yaml:"pid"`
	Config scanengine.SessionConfig `yaml:"config"`
}

func exit(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, fmt.Sprintf("scanmemd: "+format+"\n", a...))
	os.Exit(1)
}

func loadConfigFile(filename string) startupConfig {
	configBytes, err := ioutil.ReadFile(filename)
	if err != nil {
		exit("%s", err)
	}
	cfg := startupConfig{Config: scanengine.DefaultSessionConfig()}
	if err := yaml.Unmarshal(configBytes, &cfg); err != nil {
		exit("error in %q: %s", filename, err)
	}
	return cfg
}

func main() {
	scanengine.SetLogger(log.New(os.Stderr, "", 0))
	optConfig := flag.String("config", "", "load a startup config file (pid + session defaults)")
	optDebug := flag.Bool("debug", false, "print debug output")
	optPid := flag.Int("pid", 0, "attach to this pid at startup")

	flag.Parse()
	scanengine.SetLogDebug(*optDebug)

	session := scanengine.NewSession()
	defer session.Close()

	if *optConfig != "" {
		cfg := loadConfigFile(*optConfig)
		session.SetConfig(cfg.Config)
		if cfg.Pid != 0 {
			session.SetPid(cfg.Pid)
		}
	}
	if *optPid != 0 {
		session.SetPid(*optPid)
	}

	prompt := NewPrompt("scanmem> ", bufio.NewReader(os.Stdin), bufio.NewWriter(os.Stdout), session)
	if stdinFileInfo, _ := os.Stdin.Stat(); (stdinFileInfo.Mode() & os.ModeCharDevice) == 0 {
		// Input comes from a pipe: echo commands in the transcript so
		// the session's output remains self-explanatory.
		prompt.SetEcho(true)
	}
	prompt.Interact()
}
