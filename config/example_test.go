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

package config_test

import (
	"context"
	"fmt"
	"log"

	"rivaas.dev/settings/config"
	"rivaas.dev/settings/config/codec"
)

// Example demonstrates layering two sources.
func Example() {
	appsettings := []byte(`{
  "AppName": "demo",
  "Mail": {"Host": "a.com", "Port": 25}
}`)

	store, err := config.New(
		config.WithContent(appsettings, codec.TypeJSON),
		config.WithArgs([]string{"--Mail:Port=587"}),
	)
	if err != nil {
		log.Fatal(err)
	}

	if _, err = store.Build(context.Background()); err != nil {
		log.Fatal(err)
	}

	fmt.Println(store.Get("AppName"))
	fmt.Println(store.Get("mail:host"))
	fmt.Println(store.Int("MAIL.PORT"))

	// Output:
	// demo
	// a.com
	// 587
}

// ExampleStore_Section shows section extraction with relative keys.
func ExampleStore_Section() {
	store := config.MustNew(
		config.WithContent([]byte("mail:\n  host: a.com\n  port: 25\n"), codec.TypeYAML),
	)
	store.MustBuild(context.Background())

	mail := store.Section("Mail")
	fmt.Println(mail.Map())
	fmt.Println(mail.Exists(), store.Section("Database").Exists())

	// Output:
	// map[host:a.com port:25]
	// true false
}

// ExampleStore_Provenance shows which source supplied a value.
func ExampleStore_Provenance() {
	store := config.MustNew(
		config.WithContent([]byte(`{"Mail":{"Port":25}}`), codec.TypeJSON),
		config.WithArgs([]string{"--Mail:Port", "587"}),
	)
	store.MustBuild(context.Background())

	v, _ := store.Provenance("Mail:Port")
	fmt.Println(v.Raw, v.Source, v.Layer)

	// Output:
	// 587 args 1
}

// ExampleGetOr demonstrates typed access with a fallback.
func ExampleGetOr() {
	store := config.MustNew(
		config.WithContent([]byte(`{"Hosts":["a","b"]}`), codec.TypeJSON),
	)
	store.MustBuild(context.Background())

	fmt.Println(config.GetOr(store, "Hosts", []string{"localhost"}))
	fmt.Println(config.GetOr(store, "Timeout", "30s"))

	// Output:
	// [a b]
	// 30s
}
