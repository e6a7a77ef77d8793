package chunker

import "strings"

// Rough ratio of tokens to whitespace-separated words. Exact
// tokenization is not required for chunk sizing.
const tokensPerWord = 1.33

// EstimateTokens gives an approximate token count for text.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	tokens := int(float64(words) * tokensPerWord)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
