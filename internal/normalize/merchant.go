package normalize

import "strings"

// escapeQuotes backslash-escapes embedded quote characters so the raw
// description is safe for downstream storage.
func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

// extractMerchant pulls a merchant name and a candidate region code out of a
// free-text merchant description. The text has no reliable delimiter, so this
// is a best-effort token heuristic, intentionally brittle and lossy:
//
//   - When a tab is present, everything before the first tab is the name.
//   - Otherwise the first space-separated token is the name; with more than
//     two tokens, subsequent non-empty tokens are appended until a token
//     containing '<', '#', or a tab is reached, or only the last two
//     non-empty tokens remain (assumed to encode city and region).
//   - The region code is the final token, truncated to its first two
//     characters when longer.
func extractMerchant(desc string) (name, stateCode string) {
	tokens := strings.Split(desc, " ")

	if idx := strings.IndexByte(desc, '\t'); idx >= 0 {
		name = desc[:idx]
	} else {
		name = tokens[0]
		if len(tokens) > 2 {
			nonEmpty := 0
			for i := range tokens {
				tokens[i] = strings.TrimSpace(tokens[i])
				if tokens[i] != "" {
					nonEmpty++
				}
			}

			consumed := 1
			for i := 1; i < len(tokens) && consumed < nonEmpty-2; i++ {
				if tokens[i] == "" {
					continue
				}
				consumed++
				if strings.ContainsAny(tokens[i], "<#\t") {
					break
				}
				name += " " + tokens[i]
			}
		}
	}

	last := tokens[len(tokens)-1]
	if len(last) > 2 {
		stateCode = last[:2]
	} else {
		stateCode = last
	}
	return name, stateCode
}
