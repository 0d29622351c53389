package extract

import "strings"

// Sentences splits text into sentences (simple heuristic)
func Sentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			// Avoid splitting on decimals and common abbreviations
			if r == '.' && i+1 < len(runes) && runes[i+1] >= '0' && runes[i+1] <= '9' {
				continue
			}
			s := strings.TrimSpace(current.String())
			if len(s) > 3 {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}

	if s := strings.TrimSpace(current.String()); len(s) > 3 {
		sentences = append(sentences, s)
	}

	return sentences
}

// NumericSentences returns the sentences of text that contain at least one
// non-year number, in source order
func NumericSentences(text string) []string {
	var out []string
	for _, s := range Sentences(text) {
		if len(Numbers(s)) > 0 {
			out = append(out, s)
		}
	}
	return out
}
