//go:build !no_gemini

package main

import _ "github.com/petal-labs/chatgate/providers/gemini"
