// Copyright 2025 The Rivaas Authors
// Copyright 2025 Company.info B.V.
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

package monitor_test

import (
	"context"
	"fmt"

	"rivaas.dev/settings/binding"
	"rivaas.dev/settings/config"
	"rivaas.dev/settings/monitor"
	"rivaas.dev/settings/validation"
)

type Mail struct {
	Host string
	Port int
}

func ExampleMonitor() {
	ctx := context.Background()
	src := config.TestSource("appsettings.json", map[string]string{
		"Mail:Host": "smtp.example.com",
		"Mail:Port": "25",
	})
	store := config.MustNew(config.WithSource(src))

	schema := binding.NewSchema(
		binding.String("Host", func(m *Mail, v string) { m.Host = v }),
		binding.Int("Port", func(m *Mail, v int) { m.Port = v }),
	)
	chain := validation.MustChain[Mail]().
		Must(func(m Mail) bool { return m.Port > 0 }, "Port must be > 0")

	mon := monitor.MustNew(store, "Mail", schema, monitor.WithChain(chain))
	defer mon.Close() //nolint:errcheck // example
	if err := mon.Load(ctx); err != nil {
		panic(err)
	}

	held := mon.Current()
	mon.Subscribe(func(m Mail) { fmt.Println("published port", m.Port) })

	src.Set(map[string]string{"Mail:Host": "smtp.example.com", "Mail:Port": "0"})
	fmt.Println(mon.Reload(ctx))

	src.Set(map[string]string{"Mail:Host": "smtp.example.com", "Mail:Port": "587"})
	_ = mon.Reload(ctx) //nolint:errcheck // example

	fmt.Println("held port", held.Port, "current port", mon.Current().Port)
	// Output:
	// validation failed: Port must be > 0
	// published port 587
	// held port 25 current port 587
}
