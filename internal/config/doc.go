// Package config provides the configuration for tokdump.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← TOKDUMP_INPUT_MODE=lines
//	├─────────────────────────────┤
//	│  2. Config File             │  ← -config tokdump.toml / .yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Each layer is a nested map produced by the loader package. The merged
// map is decoded into a Config and validated.
//
// # Basic Usage
//
//	cfg, err := config.Load(
//		config.WithFile("tokdump.toml"),
//		config.WithOverrides(map[string]any{"output": map[string]any{"format": "json"}}),
//	)
//	if err != nil {
//		return err
//	}
//	fmt.Println(cfg.Input.Mode)
//
// # Settings
//
//	input.mode            runes | graphemes | lines | words | json
//	input.encoding        utf-8 | auto | utf-16 | utf-16le | utf-16be | latin1 | windows-1252
//	input.normalize       "" | nfc | nfd
//	input.replaceInvalid  bool
//	input.maxSize         bytes, 0 for no limit
//	output.format         text | json
//	output.limit          records, 0 for no limit
//	script.path           Lua file run against the input
//	script.timeout        duration ("5s")
//	watch.enabled         bool
//	watch.debounce        duration ("100ms")
//	logging.level         debug | info | warn | error
//	logging.json          bool
package config
