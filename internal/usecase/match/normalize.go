package match

import (
	"regexp"
	"strings"
)

// Branch-name suffixes stripped from clinic names before comparison.
// Review rows frequently carry a branch suffix (…점) that the directory
// entry omits, or vice versa.
var branchSuffixes = []string{
	"청라점", "강남점", "부산본점", "서울점", "인천점", "대구점", "광주점",
	"울산점", "창원점", "전주점", "천안점", "안양점", "수원점", "분당점",
	"일산점", "본점", "분원",
}

var (
	numberedBranchPattern = regexp.MustCompile(`제\d+지점$`)
	branchTailPattern     = regexp.MustCompile(`(지점|점)$`)
	whitespacePattern     = regexp.MustCompile(`\s+`)
)

// NormalizeName reduces a clinic name to its comparison form: whitespace
// removed, branch suffixes and the 한의원 suffix stripped, lowercased.
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}
	n := whitespacePattern.ReplaceAllString(name, "")
	for _, suffix := range branchSuffixes {
		n = strings.TrimSuffix(n, suffix)
	}
	n = numberedBranchPattern.ReplaceAllString(n, "")
	n = branchTailPattern.ReplaceAllString(n, "")
	n = strings.TrimSuffix(n, "한의원")
	return strings.ToLower(n)
}

// Address noise removed before comparison: floors, unit numbers, building
// names, and anything after a comma or inside parentheses. What remains is
// roughly road name + building number.
var addressNoisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\s*\d+층.*$`),
	regexp.MustCompile(`\s*[가-힣]+빌딩.*$`),
	regexp.MustCompile(`\s*[가-힣]+타워.*$`),
	regexp.MustCompile(`\s*[가-힣]+프라자.*$`),
	regexp.MustCompile(`\s*[가-힣]+센터.*$`),
	regexp.MustCompile(`\s*[가-힣]+상가.*$`),
	regexp.MustCompile(`\s*\d+호.*$`),
	regexp.MustCompile(`\s*,.*$`),
	regexp.MustCompile(`\s*\(.*?\)`),
}

// provinceShortForms folds official province names to the short forms used
// inconsistently across data sources.
var provinceShortForms = [][2]string{
	{"서울특별시", "서울"},
	{"부산광역시", "부산"},
	{"대구광역시", "대구"},
	{"인천광역시", "인천"},
	{"광주광역시", "광주"},
	{"대전광역시", "대전"},
	{"울산광역시", "울산"},
	{"세종특별자치시", "세종"},
	{"경기도", "경기"},
	{"강원특별자치도", "강원"},
	{"충청북도", "충북"},
	{"충청남도", "충남"},
	{"전라북도", "전북"},
	{"전라남도", "전남"},
	{"경상북도", "경북"},
	{"경상남도", "경남"},
	{"제주특별자치도", "제주"},
}

// NormalizeAddress reduces an address to road name + building number with
// province names folded to short forms, whitespace removed, lowercased.
func NormalizeAddress(address string) string {
	if address == "" {
		return ""
	}
	a := address
	for _, p := range addressNoisePatterns {
		a = p.ReplaceAllString(a, "")
	}
	for _, fold := range provinceShortForms {
		a = strings.ReplaceAll(a, fold[0], fold[1])
	}
	a = whitespacePattern.ReplaceAllString(a, "")
	return strings.ToLower(a)
}
