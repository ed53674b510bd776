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

// This file implements prompt for scanmemd testability.

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/scanmem-go/scanmem/pkg/scanengine"
)

type Cmd struct {
	description string
	Run         func([]string) commandStatus
}

type Prompt struct {
	r           *bufio.Reader
	w           *bufio.Writer
	f           *flag.FlagSet
	session     *scanengine.Session
	cmds        map[string]Cmd
	ps1         string
	echo        bool
	quit        bool
	watchCancel context.CancelFunc
}

type commandStatus int

const (
	csOk commandStatus = iota
	csErr
)

func NewPrompt(ps1 string, reader *bufio.Reader, writer *bufio.Writer, session *scanengine.Session) *Prompt {
	p := Prompt{
		r:       reader,
		w:       writer,
		ps1:     ps1,
		session: session,
	}
	p.cmds = map[string]Cmd{
		"q":        {"quit interactive prompt.", p.cmdQuit},
		"quit":     {"quit interactive prompt.", p.cmdQuit},
		"pid":      {"set target pid; clears matches.", p.cmdPid},
		"reset":    {"clear matches.", p.cmdReset},
		"count":    {"print match count.", p.cmdCount},
		"snapshot": {"run a first-pass Any scan.", p.cmdSnapshot},
		"scan":     {"scan <dataType> <matchKind> [value [high]]: first scan or narrow.", p.cmdScan},
		"list":     {"list [limit]: show matches.", p.cmdList},
		"write":    {"write <value> [index]: write to one or all matches.", p.cmdWrite},
		"watch":    {"watch <addr> [interval]: long-poll one address, interval e.g. 500ms.", p.cmdWatch},
		"set":      {"set <key> <value>: change a session default.", p.cmdSet},
		"help":     {"print help.", p.cmdHelp},
		"nop":      {"no operation.", p.cmdNop},
	}
	return &p
}

func (p *Prompt) output(format string, a ...interface{}) {
	if p.w == nil {
		return
	}
	p.w.WriteString(fmt.Sprintf(format, a...))
	p.w.Flush()
}

func (p *Prompt) Interact() {
	logger := log.New(p.w, "", log.Ltime|log.Lmicroseconds)
	scanengine.SetLogger(logger)
	for !p.quit {
		p.output(p.ps1)
		rawcmd, err := p.r.ReadString(byte('\n'))
		if err != nil {
			p.output("quit: %s\n", err)
			break
		}
		if p.echo {
			p.output("%s", rawcmd)
		}
		cmdSlice := strings.Split(strings.TrimSpace(rawcmd), " ")
		if len(cmdSlice) == 0 {
			continue
		}
		if cmdSlice[0] == "" {
			cmdSlice[0] = "nop"
		}
		p.f = flag.NewFlagSet(cmdSlice[0], flag.ContinueOnError)
		if cmd, ok := p.cmds[cmdSlice[0]]; ok {
			cmd.Run(cmdSlice[1:])
		} else if len(cmdSlice[0]) > 0 {
			p.output("unknown command %q\n", cmdSlice[0])
		}
	}
	p.output("quit.\n")
}

func (p *Prompt) SetEcho(newEcho bool) {
	p.echo = newEcho
}

func sortedStringKeys(m map[string]Cmd) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (p *Prompt) cmdNop(args []string) commandStatus {
	return csOk
}

func (p *Prompt) cmdHelp(args []string) commandStatus {
	p.output("Available commands:\n")
	for _, name := range sortedStringKeys(p.cmds) {
		p.output("        %-10s %s\n", name, p.cmds[name].description)
	}
	return csOk
}

func (p *Prompt) cmdPid(args []string) commandStatus {
	if len(args) != 1 {
		p.output("usage: pid <n>\n")
		return csErr
	}
	pid, err := strconv.Atoi(args[0])
	if err != nil {
		p.output("invalid pid %q: %s\n", args[0], err)
		return csErr
	}
	p.session.SetPid(pid)
	p.output("pid set to %d\n", pid)
	return csOk
}

func (p *Prompt) cmdReset(args []string) commandStatus {
	p.session.Reset()
	p.output("matches cleared\n")
	return csOk
}

func (p *Prompt) cmdCount(args []string) commandStatus {
	p.output("%d\n", p.session.Count())
	return csOk
}

func (p *Prompt) cmdSnapshot(args []string) commandStatus {
	dt := scanengine.DataTypeI32
	if len(args) > 0 {
		parsed, err := scanengine.ParseDataType(args[0])
		if err != nil {
			p.output("%s\n", err)
			return csErr
		}
		dt = parsed
	}
	stats, err := p.session.Snapshot(dt)
	if err != nil {
		p.output("snapshot failed: %s\n", err)
		return csErr
	}
	p.output("regions=%d bytes=%d matches=%d\n", stats.RegionsVisited, stats.BytesScanned, stats.Matches)
	return csOk
}

func (p *Prompt) cmdScan(args []string) commandStatus {
	if len(args) < 2 {
		p.output("usage: scan <dataType> <matchKind> [value [high]]\n")
		return csErr
	}
	dt, err := scanengine.ParseDataType(args[0])
	if err != nil {
		p.output("%s\n", err)
		return csErr
	}
	mk, err := scanengine.ParseMatchKind(args[1])
	if err != nil {
		p.output("%s\n", err)
		return csErr
	}
	var uv *scanengine.UserValue
	if mk != scanengine.MatchKindAny {
		uv, err = scanengine.ParseUserValue(dt, mk, args[2:])
		if err != nil {
			p.output("%s\n", err)
			return csErr
		}
	}
	stats, err := p.session.Scan(dt, mk, uv, false)
	if err != nil {
		p.output("scan failed: %s\n", err)
		return csErr
	}
	p.output("regions=%d bytes=%d matches=%d\n", stats.RegionsVisited, stats.BytesScanned, stats.Matches)
	return csOk
}

func (p *Prompt) cmdList(args []string) commandStatus {
	limit := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			p.output("invalid limit %q: %s\n", args[0], err)
			return csErr
		}
		limit = n
	}
	for _, rec := range p.session.List(limit) {
		p.output("%s\n", rec)
	}
	return csOk
}

func (p *Prompt) cmdWrite(args []string) commandStatus {
	if len(args) < 1 {
		p.output("usage: write <value> [index]\n")
		return csErr
	}
	var index *int
	valueArgs := args
	if len(args) >= 2 {
		if n, err := strconv.Atoi(args[len(args)-1]); err == nil {
			index = &n
			valueArgs = args[:len(args)-1]
		}
	}
	dt := p.session.LastDataType()
	if dt == scanengine.DataTypeUnknown {
		dt = scanengine.DataTypeI32
	}
	uv, err := scanengine.ParseUserValue(dt, scanengine.MatchKindEqualTo, valueArgs)
	if err != nil {
		p.output("%s\n", err)
		return csErr
	}
	stats, err := p.session.Write(uv, index)
	if err != nil {
		p.output("write failed (attempted=%d succeeded=%d): %s\n", stats.Attempted, stats.Succeeded, err)
		return csErr
	}
	p.output("attempted=%d succeeded=%d\n", stats.Attempted, stats.Succeeded)
	return csOk
}

func (p *Prompt) cmdWatch(args []string) commandStatus {
	if len(args) < 1 {
		p.output("usage: watch <addr> [interval]\n")
		return csErr
	}
	addr, err := strconv.ParseUint(strings.TrimPrefix(args[0], "0x"), 16, 64)
	if err != nil {
		p.output("invalid address %q: %s\n", args[0], err)
		return csErr
	}
	intervalMs := 0
	if len(args) > 1 {
		d, err := scanengine.ParseTimeDuration(args[1])
		if err != nil {
			p.output("invalid interval %q: %s\n", args[1], err)
			return csErr
		}
		intervalMs = int(d.Milliseconds())
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.watchCancel = cancel
	defer cancel()
	cfg := p.session.Config()
	if intervalMs > 0 {
		cfg.WatchMs = intervalMs
		p.session.SetConfig(cfg)
	}
	width := scanengine.ByteWidthOf(p.session.LastDataType())
	err = p.session.Watch(ctx, addr, width, func(u scanengine.WatchUpdate) {
		if u.Err != nil {
			p.output("watch error: %s\n", u.Err)
			return
		}
		p.output("%#016x: %x\n", u.Addr, u.Bytes)
	})
	if err != nil {
		p.output("watch failed: %s\n", err)
		return csErr
	}
	return csOk
}

func (p *Prompt) cmdSet(args []string) commandStatus {
	if len(args) != 2 {
		p.output("usage: set <key> <value>\n")
		return csErr
	}
	cfg := p.session.Config()
	switch args[0] {
	case "step":
		n, err := strconv.Atoi(args[1])
		if err != nil {
			p.output("%s\n", err)
			return csErr
		}
		cfg.Step = n
	case "blockSize":
		n, err := scanengine.ParseBytes(args[1])
		if err != nil {
			p.output("%s\n", err)
			return csErr
		}
		cfg.BlockSize = int(n)
	case "parallel":
		cfg.Parallel = args[1] == "true"
	default:
		p.output("unknown setting %q\n", args[0])
		return csErr
	}
	p.session.SetConfig(cfg)
	p.output("%s set to %s\n", args[0], args[1])
	return csOk
}

func (p *Prompt) cmdQuit(args []string) commandStatus {
	p.quit = true
	return csOk
}
