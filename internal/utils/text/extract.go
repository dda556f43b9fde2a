package text

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// categoryKeywords maps a treatment category to the review-text keywords
// that imply it. A post may fall into several categories; posts matching
// none are classified as 일반.
var categoryKeywords = map[string][]string{
	"침구":    {"침", "뜸", "침술", "침치료", "부항", "침구", "침놓", "침맞"},
	"한약":    {"한약", "탕약", "처방", "약재", "한방약", "첩약"},
	"추나":    {"추나", "교정", "척추", "추나요법", "정골", "도수치료"},
	"다이어트": {"다이어트", "비만", "살빼기", "체중감량", "다이어트한약"},
	"미용":    {"미용", "성형", "피부", "미용침", "보톡스", "시술"},
	"임신":    {"난임", "임신", "불임", "임신준비", "산후조리", "태교"},
}

// categoryOrder fixes the output ordering so classification is deterministic.
var categoryOrder = []string{"침구", "한약", "추나", "다이어트", "미용", "임신"}

// DefaultCategory is assigned when no keyword matches.
const DefaultCategory = "일반"

var hashtagPattern = regexp.MustCompile(`#[가-힣a-zA-Z0-9_]+`)

var whitespacePattern = regexp.MustCompile(`\s+`)

// CleanHTML strips markup from feed-provided HTML and collapses whitespace,
// returning plain review text. Parse failures fall back to returning the
// input with whitespace collapsed.
func CleanHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(whitespacePattern.ReplaceAllString(html, " "))
	}
	plain := doc.Text()
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(plain, " "))
}

// FirstImageURL returns the src of the first <img> in the HTML, or "".
func FirstImageURL(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img").First().Attr("src")
	return src
}

// ExtractCategories classifies a post by keyword presence in its title and
// content. Returns at least one category (DefaultCategory when nothing
// matches).
func ExtractCategories(content, title string) []string {
	haystack := strings.ToLower(title + " " + content)

	var categories []string
	for _, category := range categoryOrder {
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(haystack, keyword) {
				categories = append(categories, category)
				break
			}
		}
	}

	if len(categories) == 0 {
		return []string{DefaultCategory}
	}
	return categories
}

// ExtractTags pulls hashtags out of post content, without the leading '#',
// deduplicated in first-seen order.
func ExtractTags(content string) []string {
	matches := hashtagPattern.FindAllString(content, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tag := m[1:]
		if seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}
