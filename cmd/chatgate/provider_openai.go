//go:build !no_openai

package main

import _ "github.com/petal-labs/chatgate/providers/openai"
