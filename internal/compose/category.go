package compose

import (
	"strings"
	"unicode/utf8"
)

// Category drives the choice of opening line for social posts.
type Category string

const (
	CategoryReview    Category = "review"
	CategoryModule    Category = "module"
	CategoryPersonal  Category = "personal"
	CategoryTechnical Category = "technical"
	CategoryGeneral   Category = "general"
)

var intros = map[Category][]string{
	CategoryReview: {
		"I have been testing out some interesting hardware and wanted to share my honest thoughts.",
		"Got my hands on something worth reviewing — here is what I found after putting it through its paces.",
		"Another hands-on review from the lab! I always enjoy digging into new security hardware.",
	},
	CategoryModule: {
		"I have been working on something I think the community will find useful.",
		"Sharing a Terraform module I built to solve a real-world problem I kept running into.",
		"Open source contribution time! I packaged up a solution I have been refining across multiple projects.",
	},
	CategoryPersonal: {
		"Something a bit more personal today — stepping outside the usual tech content.",
		"Not every post has to be technical. Sometimes it is good to reflect on the journey.",
		"Sharing some personal reflections today.",
	},
	CategoryTechnical: {
		"Deep dive time! I have been exploring this topic and wanted to break it down for the community.",
		"Here is a practical guide based on real-world experience — not just theory.",
		"Wrote up something I think fellow cloud professionals will find valuable.",
	},
	CategoryGeneral: {
		"Just published a new blog post that I think you will find interesting.",
		"New content on the blog — I would love to hear your thoughts.",
	},
}

// DetectCategory applies the keyword heuristics in precedence order:
// review, module, personal, technical, then general.
func DetectCategory(title string, tags []string) Category {
	lowerTitle := strings.ToLower(title)
	tagSet := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tagSet[strings.ToLower(strings.TrimSpace(tag))] = struct{}{}
	}
	hasTag := func(names ...string) bool {
		for _, name := range names {
			if _, ok := tagSet[name]; ok {
				return true
			}
		}
		return false
	}
	titleHas := func(words ...string) bool {
		for _, word := range words {
			if strings.Contains(lowerTitle, word) {
				return true
			}
		}
		return false
	}

	switch {
	case titleHas("review", "first look"):
		return CategoryReview
	case titleHas("terraform", "module") || hasTag("terraform"):
		return CategoryModule
	case hasTag("public speaking", "career") || titleHas("speaking", "goodbye", "mvp"):
		return CategoryPersonal
	case hasTag("azure", "security", "fido2") || titleHas("azure"):
		return CategoryTechnical
	default:
		return CategoryGeneral
	}
}

// Intro picks the opening line for a category. The choice is the title's
// character count modulo the number of options, so it is stable per title.
func Intro(category Category, title string) string {
	options, ok := intros[category]
	if !ok {
		options = intros[CategoryGeneral]
	}
	return options[utf8.RuneCountInString(title)%len(options)]
}

// IntroOptions returns a copy of the opening lines for a category.
func IntroOptions(category Category) []string {
	return append([]string(nil), intros[category]...)
}
