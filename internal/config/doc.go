// Package config loads capfix settings from a file and the environment and
// writes them back.
//
// Sources are layered, later ones overriding earlier ones field by field:
//
//	defaults  <-  settings file (.toml, .yaml, .yml, .json)  <-  CAPFIX_* variables
//
// A settings file looks like this in TOML:
//
//	exclusionWords = ["IDs", "PRs"]
//	abbreviations = ["e.g.", "i.e.", "etc.", "vs.", "z.B."]
//	capitalizeListItems = true
//	capitalizeSentences = false
//
//	[logging]
//	level = "info"
//
// Keys the engine does not know are ignored on load and preserved on save.
package config
