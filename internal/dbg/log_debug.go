// Copyright 2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build debug

package dbg

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

// Enabled is true when this binary was built with -tags debug.
const Enabled = true

var pattern *regexp.Regexp

func init() {
	flag.Func("protobluff.filter", "regexp to filter debug logs by", func(s string) (err error) {
		pattern, err = regexp.Compile(s)
		return err
	})
}

// Log prints a trace line to stderr, tagged with the calling package, file,
// and line. context is an optional ("format", args...) pair printed before
// operation, used by callers such as Journal.write to identify which
// journal or part the trace line is about.
func Log(context []any, operation string, format string, args ...any) {
	skip := 1
again:
	pc, file, line, _ := runtime.Caller(skip)
	fn := runtime.FuncForPC(pc)
	name := fn.Name()
	name = name[strings.LastIndex(name, ".")+1:]
	if strings.HasPrefix(name, "log") || strings.Contains(name, "Log") {
		skip++
		goto again
	}

	pkg := fn.Name()
	if i := strings.LastIndex(pkg, "/"); i >= 0 {
		pkg = pkg[i+1:]
	}
	if i := strings.Index(pkg, "."); i >= 0 {
		pkg = pkg[:i]
	}
	file = filepath.Base(file)

	var buf strings.Builder
	fmt.Fprintf(&buf, "%s/%s:%d", pkg, file, line)
	if len(context) >= 1 {
		fmt.Fprintf(&buf, ", "+context[0].(string), context[1:]...)
	}
	fmt.Fprintf(&buf, "] %s: ", operation)
	fmt.Fprintf(&buf, format, args...)

	if pattern != nil && !pattern.MatchString(buf.String()) {
		return
	}

	buf.WriteByte('\n')
	_, _ = os.Stderr.WriteString(buf.String())
}

// Assert panics with a formatted message if cond is false. A no-op build
// (see log_release.go) compiles this out entirely.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Errorf("protobluff: internal assertion failed: "+format, args...))
	}
}
