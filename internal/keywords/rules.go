package keywords

import "regexp"

// Rule returns candidate phrases found in text. Every candidate must be a
// literal substring of text.
type Rule func(text string) []string

// maxRuleMatches bounds the matches taken from a single rule.
const maxRuleMatches = 20

// MatchRule yields whole matches of re.
func MatchRule(re *regexp.Regexp) Rule {
	return func(text string) []string {
		return re.FindAllString(text, maxRuleMatches)
	}
}

// GroupRule yields capture group n of each match of re.
func GroupRule(re *regexp.Regexp, n int) Rule {
	return func(text string) []string {
		var out []string
		for _, m := range re.FindAllStringSubmatchIndex(text, maxRuleMatches) {
			if 2*n+1 < len(m) && m[2*n] >= 0 {
				out = append(out, text[m[2*n]:m[2*n+1]])
			}
		}
		return out
	}
}

func matchAll(exprs ...string) []Rule {
	rules := make([]Rule, len(exprs))
	for i, e := range exprs {
		rules[i] = MatchRule(regexp.MustCompile(e))
	}
	return rules
}
