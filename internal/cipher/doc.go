// Package cipher exposes the telegraph codec and bit-stream arithmetic as
// named operations that can be chained into pipelines and saved as recipes.
//
// # Operations
//
//	hex_to_bits / bits_to_hex     hex ciphertext <-> 5-bit aligned bit stream
//	baudot_encode / baudot_decode text <-> bit stream ("mode", "policy" params)
//	xor_bits                      XOR with a "bits" or "hex" parameter
//	bits_chunk / bits_join        space-separated 5-bit codes <-> bare stream
//
// Operations read and write text: hex digits, '0'/'1' strings, or telegraph
// symbols. Whitespace between bits is ignored.
//
// # Pipelines
//
//	p := &cipher.Pipeline{Operations: []cipher.OperationConfig{
//	    {Name: "hex_to_bits"},
//	    {Name: "xor_bits", Parameters: map[string]any{"hex": "D4E5F6"}},
//	    {Name: "baudot_decode"},
//	}}
//	out, err := p.Execute(ctx, []byte("A1B2C3"))
//
// # Recipes
//
// Recipes are pipelines with a name, stored as YAML files by RecipeManager.
// Bit strings in recipe parameters must be quoted so YAML keeps them as
// strings.
//
// # Detection
//
// SmartDetector guesses whether operator input is hex ciphertext, a bit
// stream, or telegraph text, and suggests the operation to run next.
package cipher
