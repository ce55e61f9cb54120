package routeros

import (
	"strings"

	"github.com/carlosrabelo/bridgevlan/core/domain/entities"
)

// parseTerse converts "print terse show-ids" output into raw records.
// Each record line is "*ID [FLAGS] key=value key=value ...". A ";;; text"
// line sets the comment of the record that follows it.
func parseTerse(output string) []entities.RawRecord {
	var records []entities.RawRecord
	var pendingComment *string

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ";;;") {
			comment := strings.TrimSpace(strings.TrimPrefix(trimmed, ";;;"))
			pendingComment = &comment
			continue
		}
		tokens := tokenize(trimmed)
		if len(tokens) == 0 || !strings.HasPrefix(tokens[0], "*") {
			continue
		}

		record := entities.RawRecord{".id": tokens[0]}
		var flags strings.Builder
		lastKey := ""
		for _, tok := range tokens[1:] {
			key, value, ok := splitAssignment(tok)
			switch {
			case ok:
				record[key] = value
				lastKey = key
			case lastKey == "":
				flags.WriteString(tok)
			default:
				// unquoted value containing spaces
				record[lastKey] += " " + tok
			}
		}
		if flags.Len() > 0 {
			record[".flags"] = flags.String()
		}
		if _, ok := record["comment"]; !ok && pendingComment != nil {
			record["comment"] = *pendingComment
		}
		pendingComment = nil
		records = append(records, record)
	}
	return records
}

// splitAssignment splits key=value, unquoting value. ok is false when tok is not an assignment.
func splitAssignment(tok string) (string, string, bool) {
	idx := strings.Index(tok, "=")
	if idx <= 0 {
		return "", "", false
	}
	key := tok[:idx]
	for _, r := range key {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '.') {
			return "", "", false
		}
	}
	return key, unquote(tok[idx+1:]), true
}

func unquote(value string) string {
	if len(value) < 2 || value[0] != '"' || value[len(value)-1] != '"' {
		return value
	}
	var sb strings.Builder
	inner := value[1 : len(value)-1]
	escaped := false
	for _, r := range inner {
		if escaped {
			sb.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// tokenize splits on whitespace outside double quotes, keeping quotes in the token
func tokenize(line string) []string {
	var tokens []string
	var cur strings.Builder
	inQuote := false
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && inQuote:
			cur.WriteRune(r)
			escaped = true
		case r == '"':
			cur.WriteRune(r)
			inQuote = !inQuote
		case (r == ' ' || r == '\t') && !inQuote:
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}
