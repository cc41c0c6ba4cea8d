package keywords

import "regexp"

// Telehealth targets search queries patients type when looking for virtual
// care. Every category is brandless.
func Telehealth() Schema {
	return Schema{
		Name:    "telehealth",
		Version: 2,
		Categories: []Category{
			{
				Key:         "serviceSearches",
				Label:       "Service searches",
				Description: "searches for the kind of care offered, such as online doctor visits",
				Rules: matchAll(
					`(?i)\b(?:online|virtual|telehealth|telemedicine|remote|same-day|on-demand|24/7)\s+(?:[a-z-]+\s+){0,2}(?:care|visits?|consultations?|appointments?|therapy|treatment|prescriptions?|services?)\b`,
				),
				Cue:       regexp.MustCompile(`(?i)\b(?:telehealth|telemedicine|virtual care|online|consultations?|appointments?)\b`),
				NGrams:    NGramCue,
				NGramCue:  regexp.MustCompile(`(?i)\b(?:telehealth|telemedicine|virtual|online|care)\b`),
				Brandless: true,
			},
			{
				Key:         "pricingSearches",
				Label:       "Pricing searches",
				Description: "searches about cost, fees and insurance coverage",
				Rules: matchAll(
					`\$[\d,]*\d(?:\.\d+)?(?:\s?(?i:per|a|/)\s?(?i:month|visit|year|consultation|session))?`,
					`(?i)\b(?:flat|low|affordable|transparent|no)[- ](?:fee|cost|price|pricing|copay)s?\b(?:[^.!?,\n]{0,40})`,
					`(?i)\b(?:insurance|medicare|medicaid|hsa|fsa)\s+(?:accepted|coverage|covered|plans?)\b`,
				),
				Cue:       regexp.MustCompile(`(?i)\b(?:price|pricing|cost|fees?|affordable|insurance)\b|[$]`),
				Brandless: true,
			},
			{
				Key:         "conditionSearches",
				Label:       "Condition searches",
				Description: "searches for the conditions treated",
				Rules: matchAll(
					`(?i)\b(?:treatment|care|therapy|medication|help) for [a-z][a-z -]{3,40}`,
					`(?i)\b(?:anxiety|depression|diabetes|hypertension|obesity|weight loss|adhd|insomnia|acne|hair loss|allergies|asthma|migraines?)\s+(?:treatment|care|management|therapy|medication)\b`,
				),
				Cue:       regexp.MustCompile(`(?i)\b(?:treats?|treatment|conditions?|symptoms?|diagnos[ie]s)\b`),
				Brandless: true,
			},
			{
				Key:         "platformSearches",
				Label:       "Platform searches",
				Description: "searches about the app, portal or platform used to get care",
				Rules: matchAll(
					`(?i)\b(?:mobile|ios|android|web|online|digital|hipaa-compliant)\s+(?:app|application|platform|portal|dashboard)\b`,
					`(?i)\b(?:app|platform|portal)\s+(?:for|that|to)\s+[^.!?,\n]{5,60}`,
				),
				Cue:       regexp.MustCompile(`(?i)\b(?:app|platform|portal|digital)\b`),
				NGrams:    NGramCue,
				NGramCue:  regexp.MustCompile(`(?i)\b(?:app|platform|portal|digital)\b`),
				Brandless: true,
			},
			{
				Key:         "healthcareSearches",
				Label:       "Healthcare searches",
				Description: "searches about providers and types of healthcare",
				Rules: matchAll(
					`(?i)\b(?:board-certified|licensed|primary care|urgent care|mental health|behavioral health)\s+(?:[a-z-]+\s+){0,2}(?:doctors?|physicians?|providers?|clinicians?|therapists?|care|services?)\b`,
				),
				Cue:       regexp.MustCompile(`(?i)\b(?:doctors?|physicians?|providers?|clinicians?|patients?|healthcare|health care)\b`),
				NGrams:    NGramCue,
				NGramCue:  regexp.MustCompile(`(?i)\b(?:health|healthcare|medical|patients?)\b`),
				Brandless: true,
			},
			{
				Key:         "announcementSearches",
				Label:       "Announcement searches",
				Description: "searches about launches, expansions and partnerships",
				Rules: matchAll(
					`(?i)\b(?:announces?|launch(?:es)?|introduces?|expands?|partners?|unveils?)\b[^.!?\n]{10,150}`,
				),
				Cue:       regexp.MustCompile(`(?i)\b(?:announces?|launch(?:es)?|introduces?|expands?|partners?)\b`),
				Brandless: true,
			},
		},
		Boilerplate: wireServices,
	}
}
