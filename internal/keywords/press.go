package keywords

import "regexp"

const months = `january|february|march|april|may|june|july|august|september|october|november|december`

// Press is the general press-release schema.
func Press() Schema {
	return Schema{
		Name:    "press",
		Version: 1,
		Categories: []Category{
			{
				Key:         "headlinePhrases",
				Label:       "Headline phrases",
				Description: "significant phrases from headlines, subheadings and titles",
				Rules: matchAll(
					`(?m)^[^\n]{20,100}$`,
					`\b[A-Z][^.!?\n]{20,100}`,
				),
				NGrams:    NGramTop,
				Brandless: true,
			},
			{
				Key:         "keyAnnouncements",
				Label:       "Key announcements",
				Description: "announcements, launches, partnerships and expansions",
				Rules: matchAll(
					`(?i)\b(?:announces?|launch(?:es)?|introduces?|releases?|unveils?|expands?|partners?|acquires?)\b[^.!?\n]{10,150}`,
				),
				Cue:       regexp.MustCompile(`(?i)\b(?:announces?|launch(?:es)?|introduces?)\b`),
				Brandless: true,
			},
			{
				Key:         "companyActions",
				Label:       "Company actions",
				Description: "company name followed by what it does",
				Rules: matchAll(
					`\b[A-Z][A-Za-z&]*(?: [A-Z][A-Za-z&]*){0,3} (?i:announces?|launch(?:es)?|introduces?|partners?|expands?|acquires?|develops?|creates?)\b[^.!?\n]{5,100}`,
				),
				Cue: regexp.MustCompile(`(?i)\b(?:partners?|expands?|acquires?)\b`),
			},
			{
				Key:         "datesAndEvents",
				Label:       "Dates and events",
				Description: "dates, quarters, years, event and conference names",
				Rules: matchAll(
					`(?i)\b(?:`+months+`)\s+\d{1,2},?\s+\d{4}\b`,
					`\b\d{1,2}/\d{1,2}/\d{4}\b`,
					`\bQ[1-4]\s+\d{4}\b`,
					`(?i)\b\d{4}\s+(?:conference|summit|event|meeting)\b`,
				),
				Cue:       regexp.MustCompile(`(?i)\b(?:conference|summit|event|meeting|quarter)\b`),
				Brandless: true,
			},
			{
				Key:         "productServiceNames",
				Label:       "Product and service names",
				Description: "product, service, platform and technology names",
				Rules: matchAll(
					`\b[A-Z][A-Za-z0-9]*(?: [A-Z][A-Za-z0-9]*){0,3} (?i:platform|service|product|solution|technology|software|application|system)s?\b`,
				),
				NGrams:   NGramCue,
				NGramCue: regexp.MustCompile(`(?i)\b(?:platform|service|product|solution|technology)\b`),
			},
			{
				Key:         "executiveQuotes",
				Label:       "Executive quotes",
				Description: "meaningful phrases from quoted executives and spokespersons",
				Rules: matchAll(
					`"[^"\n]{20,200}"`,
					`“[^”\n]{20,200}”`,
				),
				Cue: regexp.MustCompile(`\b(?:said|stated)\b`),
			},
			{
				Key:         "financialMetrics",
				Label:       "Financial metrics",
				Description: "funding amounts, revenue figures, growth percentages and valuations",
				Rules: matchAll(
					`\$[\d,]*\d(?:\.\d+)?(?:\s?(?i:million|billion|thousand))?`,
					`\b\d+(?:\.\d+)?%\s+(?i:growth|increase|decrease)\b`,
					`(?i)\b(?:revenue|funding) of \$[\d,]*\d(?:\.\d+)?(?:\s?(?:million|billion|thousand))?`,
					`\bSeries [A-F] (?i:funding|round|financing)\b`,
				),
				Cue:       regexp.MustCompile(`(?i)\b(?:revenue|funding|growth)\b|[$%]`),
				Brandless: true,
			},
			{
				Key:         "locations",
				Label:       "Locations",
				Description: "cities, states, countries, regions and headquarters",
				Rules: append(matchAll(
					`\b[A-Z][a-z]+(?: [A-Z][a-z]+)?, [A-Z]{2}\b`,
				), GroupRule(regexp.MustCompile(`\b(?:headquartered|headquarters|based|located) in ([A-Z][A-Za-z]+(?:,? [A-Z][A-Za-z]+){0,2})`), 1)),
				Cue:       regexp.MustCompile(`(?i)\b(?:headquarters|based in|located)\b`),
				Brandless: true,
			},
		},
		Boilerplate: wireServices,
	}
}
