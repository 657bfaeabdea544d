//go:build !no_anthropic

package main

import _ "github.com/petal-labs/chatgate/providers/anthropic"
