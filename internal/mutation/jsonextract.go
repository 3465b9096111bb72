/*-------------------------------------------------------------------------
 *
 * jsonextract.go
 *    Defensive JSON extraction from model output
 *
 * Model replies are never trusted to be pure JSON: they may wrap the
 * document in markdown fences or prose. ExtractJSONObject strips
 * fences and scans for the first balanced top-level object, counting
 * braces while respecting quoted strings and escapes.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/mutation/jsonextract.go
 *
 *-------------------------------------------------------------------------
 */

package mutation

import "strings"

/* ExtractJSONObject returns the first balanced JSON object in content, or "{}" */
func ExtractJSONObject(content string) string {
	result := strings.TrimSpace(content)
	if result == "" {
		return "{}"
	}

	/* Strip markdown fences first */
	if idx := strings.Index(result, "```json"); idx >= 0 {
		end := strings.Index(result[idx+7:], "```")
		if end >= 0 {
			result = result[idx+7 : idx+7+end]
		}
	} else if idx := strings.Index(result, "```"); idx >= 0 {
		end := strings.Index(result[idx+3:], "```")
		if end >= 0 {
			result = result[idx+3 : idx+3+end]
		}
	}

	result = strings.TrimSpace(result)
	start := strings.IndexByte(result, '{')
	if start < 0 {
		return "{}"
	}

	balance := 0
	inString := false
	escape := false

	for i := start; i < len(result); i++ {
		c := result[i]

		if escape {
			escape = false
			continue
		}

		switch c {
		case '\\':
			escape = true
		case '"':
			inString = !inString
		case '{':
			if !inString {
				balance++
			}
		case '}':
			if !inString {
				balance--
				if balance == 0 {
					return result[start : i+1]
				}
			}
		}
	}

	return "{}"
}
