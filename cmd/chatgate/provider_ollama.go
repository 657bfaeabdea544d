//go:build !no_ollama

package main

import _ "github.com/petal-labs/chatgate/providers/ollama"
