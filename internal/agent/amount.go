package agent

import (
	"strconv"
	"strings"
)

// extractAmount pulls a bid amount out of a command. A currency-marked token
// ("$1,200.50") wins over the first bare numeric token; commas are treated
// as thousands separators and stripped. Returns false when no token parses.
func extractAmount(command string) (float64, bool) {
	tokens := strings.Fields(command)

	for _, token := range tokens {
		if !strings.ContainsRune(token, '$') {
			continue
		}
		if v, ok := parseAmountToken(token); ok {
			return v, true
		}
	}

	for _, token := range tokens {
		if v, ok := parseAmountToken(token); ok {
			return v, true
		}
	}

	return 0, false
}

// parseAmountToken parses one token as an amount. The token may carry a
// leading or trailing currency marker and trailing sentence punctuation, but
// must otherwise consist of digits, commas, and at most one decimal point.
func parseAmountToken(token string) (float64, bool) {
	token = strings.TrimRight(token, ".,!?")
	token = strings.TrimPrefix(token, "$")
	token = strings.TrimSuffix(token, "$")
	if token == "" {
		return 0, false
	}

	for _, r := range token {
		if (r < '0' || r > '9') && r != ',' && r != '.' {
			return 0, false
		}
	}

	token = strings.ReplaceAll(token, ",", "")
	v, err := strconv.ParseFloat(token, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
