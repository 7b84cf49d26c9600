package fetch

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Detector inspects a response for a bot-protection interstitial and
// returns the vendor name when it finds one. doc may be nil when the body
// is not parsable HTML.
type Detector func(status int, header http.Header, doc *goquery.Document) (vendor string, ok bool)

// DefaultDetectors returns the built-in bot protection detectors.
func DefaultDetectors() []Detector {
	return []Detector{
		detectCloudflare,
		detectAkamai,
		detectDataDome,
		detectPerimeterX,
		detectCaptchaWall,
	}
}

// DetectChallenge runs detectors in order and reports the first hit. The
// body is only parsed for non-2xx responses; on success detectors see a nil
// doc and can still match on headers.
func DetectChallenge(detectors []Detector, status int, header http.Header, body []byte) (string, bool) {
	if len(detectors) == 0 {
		return "", false
	}
	var doc *goquery.Document
	if len(body) > 0 && (status < 200 || status > 299) {
		doc, _ = goquery.NewDocumentFromReader(bytes.NewReader(body))
	}
	for _, d := range detectors {
		if vendor, ok := d(status, header, doc); ok {
			return vendor, true
		}
	}
	return "", false
}

func blockingStatus(status int) bool {
	return status == http.StatusForbidden || status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

func title(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func has(doc *goquery.Document, selector string) bool {
	return doc != nil && doc.Find(selector).Length() > 0
}

func detectCloudflare(status int, header http.Header, doc *goquery.Document) (string, bool) {
	if strings.EqualFold(header.Get("Cf-Mitigated"), "challenge") {
		return "Cloudflare", true
	}
	if !blockingStatus(status) {
		return "", false
	}
	if strings.Contains(strings.ToLower(header.Get("Server")), "cloudflare") {
		return "Cloudflare", true
	}
	t := title(doc)
	if strings.HasPrefix(t, "Just a moment") || strings.Contains(t, "Attention Required! | Cloudflare") {
		return "Cloudflare", true
	}
	if has(doc, "#challenge-form, #cf-challenge-running, .cf-browser-verification, .cf-turnstile") {
		return "Cloudflare", true
	}
	return "", false
}

func detectAkamai(status int, header http.Header, doc *goquery.Document) (string, bool) {
	if status != http.StatusForbidden {
		return "", false
	}
	if strings.Contains(strings.ToLower(header.Get("Server")), "akamai") {
		return "Akamai", true
	}
	if doc != nil && title(doc) == "Access Denied" && strings.Contains(doc.Text(), "Reference #") {
		return "Akamai", true
	}
	return "", false
}

func detectDataDome(status int, header http.Header, doc *goquery.Document) (string, bool) {
	if status != http.StatusForbidden {
		return "", false
	}
	if header.Get("X-DataDome") != "" || header.Get("X-DataDome-Response") != "" {
		return "DataDome", true
	}
	if has(doc, `iframe[src*="captcha-delivery.com"], script[src*="captcha-delivery.com"]`) {
		return "DataDome", true
	}
	return "", false
}

func detectPerimeterX(status int, header http.Header, doc *goquery.Document) (string, bool) {
	if status != http.StatusForbidden {
		return "", false
	}
	if header.Get("X-Px-Captcha") != "" {
		return "PerimeterX", true
	}
	if has(doc, `#px-captcha, script[src*="perimeterx.net"]`) {
		return "PerimeterX", true
	}
	return "", false
}

// detectCaptchaWall catches generic captcha interstitials: a blocking status
// and a captcha widget on an otherwise near-empty page.
func detectCaptchaWall(status int, _ http.Header, doc *goquery.Document) (string, bool) {
	if !blockingStatus(status) || doc == nil {
		return "", false
	}
	if !has(doc, ".g-recaptcha, .h-captcha, form#captcha-form, #captcha") {
		return "", false
	}
	if len(strings.Fields(doc.Find("body").Text())) > 150 {
		return "", false
	}
	return "captcha", true
}
