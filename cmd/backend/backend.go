// Copyright 2025 The PixelPlay Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"flag"
	"net/http"
	"runtime"

	"github.com/raku1chi/pixelplay/web"

	log "github.com/sirupsen/logrus"
)

func main() {
	var (
		addr     = flag.String("addr", ":8085", "Address to listen on")
		routines = flag.Int("routines", runtime.NumCPU()*2, "Number of worker routines per request")
		verbose  = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	context := web.NewContext(web.NewMemStorage())
	if *routines > 0 {
		context.NumRoutines = *routines
	}

	mux := http.NewServeMux()
	web.RegisterHandlers(mux, context)
	log.WithField("addr", *addr).Info("Starting pixelplay backend")
	log.Fatal(http.ListenAndServe(*addr, mux))
}
