package compose

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-crosspost/internal/frontmatter"
)

func TestDetectCategoryPrecedence(t *testing.T) {
	cases := []struct {
		title string
		tags  []string
		want  Category
	}{
		{title: "Azure Review", tags: []string{"azure", "review"}, want: CategoryReview},
		{title: "First Look at YubiKey 5", want: CategoryReview},
		{title: "Reviewing my Terraform module", want: CategoryReview},
		{title: "Shipping a new module", want: CategoryModule},
		{title: "Landing zones", tags: []string{"Terraform"}, want: CategoryModule},
		{title: "Goodbye 2023", want: CategoryPersonal},
		{title: "Notes", tags: []string{"Public Speaking"}, want: CategoryPersonal},
		{title: "Conditional Access in Azure", want: CategoryTechnical},
		{title: "Passkeys everywhere", tags: []string{"fido2"}, want: CategoryTechnical},
		{title: "Hello world", tags: []string{"misc"}, want: CategoryGeneral},
	}

	for _, tc := range cases {
		t.Run(tc.title, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectCategory(tc.title, tc.tags))
		})
	}
}

func TestIntroIsDeterministic(t *testing.T) {
	title := "Azure Review"
	first := Intro(CategoryReview, title)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Intro(CategoryReview, title))
	}

	options := IntroOptions(CategoryReview)
	require.Len(t, options, 3)
	assert.Equal(t, options[len(title)%3], first)

	general := IntroOptions(CategoryGeneral)
	assert.Equal(t, general[len("abc")%2], Intro(Category("unknown"), "abc"))
}

func TestHashtagsStripSeparatorsAndCap(t *testing.T) {
	got := Hashtags([]string{"azure", "public speaking", "multi-factor auth", "a", "b", "c", "d"})
	assert.Equal(t, []string{"#azure", "#publicspeaking", "#multifactorauth", "#a", "#b"}, got)
	assert.Empty(t, Hashtags([]string{" - "}))
}

func TestSocialPostAzureReview(t *testing.T) {
	url := ArticleURL("https://azureviking.com", "azure-review")
	text := SocialPost(SocialInput{
		Title:   "Azure Review",
		Tags:    []string{"azure", "review"},
		Excerpt: "A look at the new portal experience after a month of daily use.",
		URL:     url,
	})

	lines := strings.Split(text, "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, Intro(CategoryReview, "Azure Review"), lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "📝 Azure Review", lines[2])
	assert.Equal(t, "A look at the new portal experience after a month of daily use.", lines[4])
	assert.Equal(t, "#azure #review", lines[6])
	assert.Equal(t, "Read more 👉 https://azureviking.com/post/azure-review/", lines[8])
}

func TestSocialPostFallbacks(t *testing.T) {
	text := SocialPost(SocialInput{Description: "From the description", URL: "https://x.test/post/a/"})

	assert.Contains(t, text, "📝 New Blog Post")
	assert.Contains(t, text, "\n\nFrom the description\n\n")
	assert.NotContains(t, text, "#")
}

func TestSocialTextPrecedence(t *testing.T) {
	record := frontmatter.ParseHeader("social_text: |\n  Hand written\n  text")
	generated := func() string { return "generated" }

	text, source := SocialText("  custom  ", record, generated)
	assert.Equal(t, "custom", text)
	assert.Equal(t, SourceCustom, source)

	text, source = SocialText("", record, generated)
	assert.Equal(t, "Hand written\ntext", text)
	assert.Equal(t, SourceFrontMatter, source)

	text, source = SocialText("", frontmatter.Record{}, generated)
	assert.Equal(t, "generated", text)
	assert.Equal(t, SourceGenerated, source)

	long := strings.Repeat("é", MaxCustomText+10)
	text, _ = SocialText(long, nil, generated)
	assert.Equal(t, MaxCustomText, len([]rune(text)))
}

func TestNewsletterFallbacks(t *testing.T) {
	fields := Newsletter("", "my-post", "https://x.test/post/my-post/", "", "Short description")
	assert.Equal(t, "my-post", fields.Title)
	assert.Equal(t, "Short description", fields.Excerpt)
	assert.Equal(t, map[string]string{
		"LatestPostTitle":   "my-post",
		"LatestPostUrl":     "https://x.test/post/my-post/",
		"LatestPostExcerpt": "Short description",
	}, fields.Map())
}

func TestNormalizeSiteURL(t *testing.T) {
	got, err := NormalizeSiteURL("https://AzureViking.com/")
	require.NoError(t, err)
	assert.Equal(t, "https://azureviking.com", got)

	got, err = NormalizeSiteURL("")
	require.NoError(t, err)
	assert.Equal(t, "", got)

	assert.Equal(t, "https://a.test/post/x/", ArticleURL("https://a.test/", "x"))
}
