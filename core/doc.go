// Package core defines the provider contract shared by every chatgate backend.
//
// # Provider
//
// A [Provider] wraps one remote chat API and normalizes it to four
// operations: single-shot [Provider.Chat], incremental [Provider.StreamChat],
// a non-billing [Provider.IsAvailable] probe, and [Provider.DefaultModel].
//
// # Streaming
//
// StreamChat returns a [ChatStream] rather than a bare channel so that a
// failure after the first fragment can be reported without panicking or
// dropping the connection:
//
//	stream, err := p.StreamChat(ctx, core.UserRequest(model, "hi", nil))
//	if err != nil {
//	    return err // stream never opened
//	}
//	for chunk := range stream.Ch {
//	    fmt.Print(chunk.Delta)
//	}
//	if err := stream.Wait(); err != nil {
//	    return err // stream broke mid-way
//	}
//
// Producers build streams with [NewStreamWriter]; consumers that only want the
// final text use [DrainStream].
//
// # Errors
//
// Backend failures are [*ProviderError] values wrapping a sentinel such as
// [ErrRateLimited] or [ErrNetwork]. Registry failures are
// [*UnknownProviderError] and [*ConfigError]; both are caller faults.
package core
